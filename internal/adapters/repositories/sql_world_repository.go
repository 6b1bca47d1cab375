package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"starmap-service/internal/domain"
	"starmap-service/internal/platform/obs"
	"starmap-service/internal/ports"
)

// SQLite-backed implementation of the WorldRepository and SectorWriter ports.
type SQLWorldRepository struct{ DB *sql.DB }

func NewSQLWorldRepository(db *sql.DB) *SQLWorldRepository {
	return &SQLWorldRepository{DB: db}
}

const worldColumns = `hex, name, uwp, bases, remarks, zone, pbg, allegiance, stellar, hidden`

// Return all known sectors with their subsector names.
func (s *SQLWorldRepository) ListSectors(ctx context.Context) (_ []*domain.Sector, err error) {
	defer obs.Time(ctx, "repo.ListSectors")(&err)

	if s.DB == nil {
		return nil, errors.New("world repository: DB is nil")
	}

	query := `
	SELECT
		name,
		abbreviation,
		x,
		y
	FROM sectors
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sectors: query sectors table: %w", err)
	}
	defer rows.Close()

	sectors := make([]*domain.Sector, 0, 8)
	byName := map[string]*domain.Sector{}
	for rows.Next() {
		sec := &domain.Sector{}
		if err := rows.Scan(&sec.Name, &sec.Abbreviation, &sec.X, &sec.Y); err != nil {
			return nil, fmt.Errorf("list sectors: scan row: %w", err)
		}
		sectors = append(sectors, sec)
		byName[sec.Name] = sec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sectors: row iteration: %w", err)
	}

	nameRows, err := s.DB.QueryContext(ctx, `SELECT sector, idx, name FROM subsector_names;`)
	if err != nil {
		return nil, fmt.Errorf("list sectors: query subsector_names table: %w", err)
	}
	defer nameRows.Close()

	for nameRows.Next() {
		var sector, name string
		var idx int
		if err := nameRows.Scan(&sector, &idx, &name); err != nil {
			return nil, fmt.Errorf("list sectors: scan subsector row: %w", err)
		}
		sec, ok := byName[sector]
		if !ok || idx < 0 || idx >= domain.SubsectorCount {
			continue
		}
		sec.Subsectors[idx] = name
	}
	if err := nameRows.Err(); err != nil {
		return nil, fmt.Errorf("list sectors: subsector row iteration: %w", err)
	}

	return sectors, nil
}

// Fetch one sector by name or abbreviation, case-insensitively.
func (s *SQLWorldRepository) GetSector(ctx context.Context, name string) (*domain.Sector, error) {
	if s.DB == nil {
		return nil, errors.New("world repository: DB is nil")
	}

	canonical, err := s.resolveSector(ctx, name)
	if err != nil {
		return nil, err
	}

	sec := &domain.Sector{}
	query := `SELECT name, abbreviation, x, y FROM sectors WHERE name = ?;`
	err = s.DB.QueryRowContext(ctx, query, canonical).Scan(&sec.Name, &sec.Abbreviation, &sec.X, &sec.Y)
	if err != nil {
		return nil, fmt.Errorf("get sector %q: %w", name, err)
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT idx, name FROM subsector_names WHERE sector = ?;`, canonical)
	if err != nil {
		return nil, fmt.Errorf("get sector %q: query subsector_names table: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var subName string
		if err := rows.Scan(&idx, &subName); err != nil {
			return nil, fmt.Errorf("get sector %q: scan subsector row: %w", name, err)
		}
		if idx >= 0 && idx < domain.SubsectorCount {
			sec.Subsectors[idx] = subName
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sector %q: subsector row iteration: %w", name, err)
	}

	return sec, nil
}

// List worlds in a sector, optionally restricted to one subsector.
func (s *SQLWorldRepository) ListWorlds(
	ctx context.Context,
	sector string,
	filter ports.WorldFilter,
) (_ []*domain.World, err error) {
	defer obs.Time(ctx, "repo.ListWorlds")(&err)

	if s.DB == nil {
		return nil, errors.New("world repository: DB is nil")
	}

	canonical, err := s.resolveSector(ctx, sector)
	if err != nil {
		return nil, err
	}

	conds := []string{"sector = ?"}
	args := []any{canonical}

	if filter.Subsector != 0 {
		minCol, minRow, maxCol, maxRow, err := domain.SubsectorBounds(filter.Subsector)
		if err != nil {
			return nil, fmt.Errorf("list worlds: %w", err)
		}
		conds = append(conds, "hex_col BETWEEN ? AND ?", "hex_row BETWEEN ? AND ?")
		args = append(args, minCol, maxCol, minRow, maxRow)
	}
	if !filter.IncludeHidden {
		conds = append(conds, "hidden = 0")
	}

	query := fmt.Sprintf(`
	SELECT %s
	FROM worlds
	WHERE %s
	ORDER BY hex;
	`, worldColumns, strings.Join(conds, " AND "))

	return s.queryWorlds(ctx, "list worlds", query, args...)
}

// Fetch a single world by hex. Hidden worlds stay invisible unless asked for.
func (s *SQLWorldRepository) GetWorld(
	ctx context.Context,
	sector string,
	hex domain.Hex,
	includeHidden bool,
) (*domain.World, error) {
	if s.DB == nil {
		return nil, errors.New("world repository: DB is nil")
	}

	canonical, err := s.resolveSector(ctx, sector)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM worlds WHERE sector = ? AND hex = ?;`, worldColumns)
	row := s.DB.QueryRowContext(ctx, query, canonical, hex.String())

	w, err := scanWorld(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("world %s/%s: %w", canonical, hex, domain.ErrWorldNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get world %s/%s: %w", canonical, hex, err)
	}
	if w.Hidden && !includeHidden {
		return nil, fmt.Errorf("world %s/%s: %w", canonical, hex, domain.ErrWorldNotFound)
	}

	return w, nil
}

// Worlds within a bounding box around center. The box overshoots on rows
// because of the column stagger; callers apply exact distance checks.
func (s *SQLWorldRepository) WorldsInRange(
	ctx context.Context,
	sector string,
	center domain.Hex,
	radius int,
	includeHidden bool,
) (_ []*domain.World, err error) {
	defer obs.Time(ctx, "repo.WorldsInRange")(&err)

	if s.DB == nil {
		return nil, errors.New("world repository: DB is nil")
	}
	if radius < 0 {
		return nil, fmt.Errorf("worlds in range: negative radius %d", radius)
	}

	canonical, err := s.resolveSector(ctx, sector)
	if err != nil {
		return nil, err
	}

	rowPad := radius + (radius+1)/2
	conds := []string{
		"sector = ?",
		"hex_col BETWEEN ? AND ?",
		"hex_row BETWEEN ? AND ?",
	}
	args := []any{
		canonical,
		center.Col - radius, center.Col + radius,
		center.Row - rowPad, center.Row + rowPad,
	}
	if !includeHidden {
		conds = append(conds, "hidden = 0")
	}

	query := fmt.Sprintf(`
	SELECT %s
	FROM worlds
	WHERE %s
	ORDER BY hex;
	`, worldColumns, strings.Join(conds, " AND "))

	return s.queryWorlds(ctx, "worlds in range", query, args...)
}

// Search worlds by the fields of a WorldQuery. Trade-code filtering happens
// in the service layer, which derives codes from the UWP.
func (s *SQLWorldRepository) SearchWorlds(
	ctx context.Context,
	sector string,
	query ports.WorldQuery,
) (_ []*domain.World, err error) {
	defer obs.Time(ctx, "repo.SearchWorlds")(&err)

	if s.DB == nil {
		return nil, errors.New("world repository: DB is nil")
	}

	canonical, err := s.resolveSector(ctx, sector)
	if err != nil {
		return nil, err
	}

	conds := []string{"sector = ?"}
	args := []any{canonical}

	if !query.IncludeHidden {
		conds = append(conds, "hidden = 0")
	}
	if query.Name != "" {
		conds = append(conds, `name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(query.Name)+"%")
	}
	if query.Starport != "" {
		conds = append(conds, "substr(uwp, 1, 1) = ?")
		args = append(args, strings.ToUpper(query.Starport))
	}
	if query.Zone != "" {
		zone := query.Zone
		if zone == "G" {
			zone = ""
		}
		conds = append(conds, "zone = ?")
		args = append(args, zone)
	}
	if query.RequireGasGiant {
		conds = append(conds, "substr(pbg, 3, 1) NOT IN ('', '0')")
	}

	q := fmt.Sprintf(`
	SELECT %s
	FROM worlds
	WHERE %s
	ORDER BY hex;
	`, worldColumns, strings.Join(conds, " AND "))

	return s.queryWorlds(ctx, "search worlds", q, args...)
}

// List a sector's communication routes. Without includeHidden, segments
// touching a hidden world are withheld so their endpoints stay concealed.
func (s *SQLWorldRepository) ListXBoatRoutes(
	ctx context.Context,
	sector string,
	includeHidden bool,
) ([]domain.XBoatRoute, error) {
	if s.DB == nil {
		return nil, errors.New("world repository: DB is nil")
	}

	canonical, err := s.resolveSector(ctx, sector)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT from_hex, to_hex
	FROM xboat_routes
	WHERE sector = ?
	ORDER BY from_hex, to_hex;
	`
	if !includeHidden {
		query = `
	SELECT from_hex, to_hex
	FROM xboat_routes r
	WHERE sector = ?
		AND NOT EXISTS (
			SELECT 1 FROM worlds w
			WHERE w.sector = r.sector
				AND w.hidden = 1
				AND w.hex IN (r.from_hex, r.to_hex)
		)
	ORDER BY from_hex, to_hex;
	`
	}

	rows, err := s.DB.QueryContext(ctx, query, canonical)
	if err != nil {
		return nil, fmt.Errorf("list xboat routes: query xboat_routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.XBoatRoute, 0, 16)
	for rows.Next() {
		var fromStr, toStr string
		if err := rows.Scan(&fromStr, &toStr); err != nil {
			return nil, fmt.Errorf("list xboat routes: scan row: %w", err)
		}
		from, err := domain.ParseHex(fromStr)
		if err != nil {
			return nil, fmt.Errorf("list xboat routes: from %q: %w", fromStr, err)
		}
		to, err := domain.ParseHex(toStr)
		if err != nil {
			return nil, fmt.Errorf("list xboat routes: to %q: %w", toStr, err)
		}
		routes = append(routes, domain.XBoatRoute{From: from, To: to})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list xboat routes: row iteration: %w", err)
	}

	return routes, nil
}

// Replace a sector and all of its worlds and routes in one transaction.
func (s *SQLWorldRepository) ReplaceSector(ctx context.Context, data *ports.SectorData) (err error) {
	defer obs.Time(ctx, "repo.ReplaceSector")(&err)

	if s.DB == nil {
		return errors.New("world repository: DB is nil")
	}
	if data == nil || data.Sector == nil {
		return errors.New("replace sector: nil sector data")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace sector: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sec := data.Sector

	var existing string
	findQuery := `SELECT name FROM sectors WHERE name = ? COLLATE NOCASE;`
	err = tx.QueryRowContext(ctx, findQuery, sec.Name).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("replace sector: find existing: %w", err)
	}
	if existing != "" {
		for _, table := range []string{"worlds", "xboat_routes", "subsector_names"} {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE sector = ?;`, table), existing); err != nil {
				return fmt.Errorf("replace sector: clear %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sectors WHERE name = ?;`, existing); err != nil {
			return fmt.Errorf("replace sector: clear sectors: %w", err)
		}
	}

	insertSector := `
	INSERT INTO sectors (name, abbreviation, x, y)
	VALUES (?, ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, insertSector, sec.Name, sec.Abbreviation, sec.X, sec.Y); err != nil {
		return fmt.Errorf("replace sector: insert sector %q: %w", sec.Name, err)
	}

	for idx, subName := range sec.Subsectors {
		if subName == "" {
			continue
		}
		insertName := `INSERT INTO subsector_names (sector, idx, name) VALUES (?, ?, ?);`
		if _, err := tx.ExecContext(ctx, insertName, sec.Name, idx, subName); err != nil {
			return fmt.Errorf("replace sector: insert subsector name #%d: %w", idx, err)
		}
	}

	insertWorld := `
	INSERT INTO worlds (
		sector, hex, hex_col, hex_row,
		name, uwp, bases, remarks, zone, pbg, allegiance, stellar, hidden
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	worldStmt, err := tx.PrepareContext(ctx, insertWorld)
	if err != nil {
		return fmt.Errorf("replace sector: prepare world insert: %w", err)
	}
	defer worldStmt.Close()

	for _, w := range data.Worlds {
		_, err := worldStmt.ExecContext(ctx,
			sec.Name, w.Hex.String(), w.Hex.Col, w.Hex.Row,
			w.Name, w.UWP.String(), w.Bases, w.Remarks, string(w.Zone),
			w.PBG.String(), w.Allegiance, w.Stellar, w.Hidden,
		)
		if err != nil {
			return fmt.Errorf("replace sector: insert world %s: %w", w.Hex, err)
		}
	}

	insertRoute := `INSERT OR IGNORE INTO xboat_routes (sector, from_hex, to_hex) VALUES (?, ?, ?);`
	routeStmt, err := tx.PrepareContext(ctx, insertRoute)
	if err != nil {
		return fmt.Errorf("replace sector: prepare route insert: %w", err)
	}
	defer routeStmt.Close()

	for _, r := range data.Routes {
		if _, err := routeStmt.ExecContext(ctx, sec.Name, r.From.String(), r.To.String()); err != nil {
			return fmt.Errorf("replace sector: insert route %s-%s: %w", r.From, r.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace sector: commit tx: %w", err)
	}

	return nil
}

// resolveSector maps a name or abbreviation to the stored canonical name.
func (s *SQLWorldRepository) resolveSector(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("sector %q: %w", name, domain.ErrSectorNotFound)
	}

	query := `
	SELECT name
	FROM sectors
	WHERE name = ? COLLATE NOCASE
		OR (abbreviation != '' AND abbreviation = ? COLLATE NOCASE);
	`
	var canonical string
	err := s.DB.QueryRowContext(ctx, query, name, name).Scan(&canonical)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("sector %q: %w", name, domain.ErrSectorNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolve sector %q: %w", name, err)
	}
	return canonical, nil
}

func (s *SQLWorldRepository) queryWorlds(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]*domain.World, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query worlds table: %w", op, err)
	}
	defer rows.Close()

	worlds := make([]*domain.World, 0, 32)
	for rows.Next() {
		w, err := scanWorld(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		worlds = append(worlds, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return worlds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanWorld rebuilds a domain world from a row of worldColumns.
func scanWorld(row rowScanner) (*domain.World, error) {
	var hexStr, name, uwpStr, bases, remarks, zoneStr, pbgStr, allegiance, stellar string
	var hidden bool

	err := row.Scan(&hexStr, &name, &uwpStr, &bases, &remarks, &zoneStr, &pbgStr, &allegiance, &stellar, &hidden)
	if err != nil {
		return nil, err
	}

	hex, err := domain.ParseHex(hexStr)
	if err != nil {
		return nil, fmt.Errorf("world %q: %w", hexStr, err)
	}
	uwp, err := domain.ParseUWP(uwpStr)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", hexStr, err)
	}
	zone, err := domain.ParseZone(zoneStr)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", hexStr, err)
	}
	var pbg domain.PBG
	if pbgStr != "" {
		pbg, err = domain.ParsePBG(pbgStr)
		if err != nil {
			return nil, fmt.Errorf("world %s: %w", hexStr, err)
		}
	}

	return &domain.World{
		Hex:        hex,
		Name:       name,
		UWP:        uwp,
		Bases:      bases,
		Remarks:    remarks,
		Zone:       zone,
		PBG:        pbg,
		Allegiance: allegiance,
		Stellar:    stellar,
		Hidden:     hidden,
	}, nil
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
