package storage

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pable/go-futsal-metrics/internal/model"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateTeamColors checks that a reference row has a name and two #RRGGBB colors.
func ValidateTeamColors(tc model.TeamColors) error {
	if strings.TrimSpace(tc.Name) == "" {
		return errors.New("team name is empty")
	}
	for _, c := range []string{tc.HomeColor, tc.AwayColor} {
		if !hexColor.MatchString(strings.TrimSpace(c)) {
			return fmt.Errorf("team %q: color %q is not #RRGGBB", tc.Name, c)
		}
	}
	return nil
}

func normalizeTeamColors(tc model.TeamColors) model.TeamColors {
	return model.TeamColors{
		Name:      strings.TrimSpace(tc.Name),
		Abbr:      strings.ToUpper(strings.TrimSpace(tc.Abbr)),
		HomeColor: strings.ToUpper(strings.TrimSpace(tc.HomeColor)),
		AwayColor: strings.ToUpper(strings.TrimSpace(tc.AwayColor)),
	}
}

// UpsertTeamColor inserts or replaces one reference row, keyed by name.
func (db *DB) UpsertTeamColor(ctx context.Context, tc model.TeamColors) error {
	return db.UpsertTeamColors(ctx, []model.TeamColors{tc})
}

// UpsertTeamColors inserts or replaces rows in a single transaction. Nothing
// is written when any row is invalid.
func (db *DB) UpsertTeamColors(ctx context.Context, rows []model.TeamColors) error {
	for _, tc := range rows {
		if err := ValidateTeamColors(tc); err != nil {
			return err
		}
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO team_colors(name, abbr, home_color, away_color)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tc := range rows {
		tc = normalizeTeamColors(tc)
		if _, err := stmt.ExecContext(ctx, tc.Name, tc.Abbr, tc.HomeColor, tc.AwayColor); err != nil {
			return fmt.Errorf("insert team_colors for %s: %w", tc.Name, err)
		}
	}
	return tx.Commit()
}

// ListTeamColors returns every reference row ordered by name.
func (db *DB) ListTeamColors(ctx context.Context) ([]model.TeamColors, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, abbr, home_color, away_color
		FROM team_colors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamColors
	for rows.Next() {
		var tc model.TeamColors
		if err := rows.Scan(&tc.Name, &tc.Abbr, &tc.HomeColor, &tc.AwayColor); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// LookupPalette finds a team's colors by abbreviation first, then by name.
// Both keys are compared trimmed and upper-cased. ok is false on a miss.
func (db *DB) LookupPalette(ctx context.Context, abbr, name string) (model.TeamColors, bool, error) {
	if key := strings.ToUpper(strings.TrimSpace(abbr)); key != "" {
		tc, ok, err := db.lookupBy(ctx, "UPPER(TRIM(abbr))", key)
		if err != nil || ok {
			return tc, ok, err
		}
	}
	if key := strings.ToUpper(strings.TrimSpace(name)); key != "" {
		return db.lookupBy(ctx, "UPPER(TRIM(name))", key)
	}
	return model.TeamColors{}, false, nil
}

func (db *DB) lookupBy(ctx context.Context, column, key string) (model.TeamColors, bool, error) {
	var tc model.TeamColors
	err := db.conn.QueryRowContext(ctx, `
		SELECT name, abbr, home_color, away_color
		FROM team_colors WHERE `+column+` = ?
		ORDER BY rowid LIMIT 1`, key).
		Scan(&tc.Name, &tc.Abbr, &tc.HomeColor, &tc.AwayColor)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TeamColors{}, false, nil
	}
	if err != nil {
		return model.TeamColors{}, false, fmt.Errorf("lookup team color: %w", err)
	}
	return tc, true, nil
}

// ReadTeamColorsCSV parses name,abbr,home_color,away_color records. A first
// line starting with "name" is taken as a header. Every row is validated.
func ReadTeamColorsCSV(r io.Reader) ([]model.TeamColors, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []model.TeamColors
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if first && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		tc := model.TeamColors{Name: rec[0], Abbr: rec[1], HomeColor: rec[2], AwayColor: rec[3]}
		if err := ValidateTeamColors(tc); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, tc)
	}
	return out, nil
}

// ImportTeamColorsCSV reads a CSV and upserts all its rows, returning the count.
func (db *DB) ImportTeamColorsCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := ReadTeamColorsCSV(r)
	if err != nil {
		return 0, err
	}
	if err := db.UpsertTeamColors(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
