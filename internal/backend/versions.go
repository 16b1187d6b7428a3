package backend

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Version table layout.
const (
	VersionTable       = "versions"
	versionNameColumn  = "table_name"
	versionValueColumn = "table_version"
	maxTableNameLen    = 50
)

// Baseline markers seeded into a fresh version table.
const (
	AppMarker    = "Leapstore"
	ResaveMarker = "Leapstore-Resave"
)

// versionEntry is one row of the version table.
type versionEntry struct {
	core.Instance
	name    string
	version int
}

func (*versionEntry) TypeName() string { return "Version" }

var versionDescriptor = &core.EntityDescriptor{
	TypeName: "Version",
	Table:    VersionTable,
	Columns: []core.ColumnDescriptor{
		{
			Name:  versionNameColumn,
			Type:  core.TypeString,
			Size:  maxTableNameLen,
			Flags: core.FlagPrimaryKey | core.FlagNotNull,
			Access: core.Bind(
				func(v *versionEntry) string { return v.name },
				func(v *versionEntry, s string) { v.name = s },
			),
		},
		{
			Name:  versionValueColumn,
			Type:  core.TypeInt,
			Flags: core.FlagNotNull,
			Access: core.Bind(
				func(v *versionEntry) int { return v.version },
				func(v *versionEntry, n int) { v.version = n },
			),
		},
	},
}

// Versions tracks the schema revision of every table, mirrored in the
// version table.
type Versions struct {
	b      *Backend
	tables map[string]int
}

func newVersions(b *Backend) *Versions {
	return &Versions{b: b, tables: make(map[string]int)}
}

// Init reads the version table, creating and seeding it when it is missing.
func (v *Versions) Init(ctx context.Context) error {
	v.tables = make(map[string]int)

	exists, err := v.b.conn.TableExists(ctx, VersionTable)
	if err != nil {
		return v.b.storageError("check version table", err)
	}
	if !exists {
		return v.create(ctx)
	}

	rs, err := v.b.SelectAll(ctx, VersionTable)
	if err != nil {
		return err
	}
	for _, row := range rs.Rows {
		name, ok := row.String(versionNameColumn)
		if !ok {
			continue
		}
		n, _ := row.Int64(versionValueColumn)
		v.tables[name] = int(n)
	}
	v.b.logger.Debug("loaded table versions", slog.Int("tables", len(v.tables)))
	return nil
}

// Reset drops and recreates the version table, then seeds the markers.
func (v *Versions) Reset(ctx context.Context) error {
	if _, err := v.b.Exec(ctx, "DROP TABLE IF EXISTS "+VersionTable); err != nil {
		return err
	}
	v.tables = make(map[string]int)
	return v.create(ctx)
}

func (v *Versions) create(ctx context.Context) error {
	if err := v.b.CreateTempTable(ctx, VersionTable, versionDescriptor); err != nil {
		return err
	}
	if err := v.Set(ctx, AppMarker, v.b.appVersion); err != nil {
		return err
	}
	return v.Set(ctx, ResaveMarker, v.b.resaveVersion)
}

// Finalize forgets all version information.
func (v *Versions) Finalize() {
	v.tables = nil
}

// Get returns the recorded version of table, or 0 when it is unknown or a
// full save into an empty database is running.
func (v *Versions) Get(table string) int {
	if v.b.pristine {
		return 0
	}
	return v.tables[table]
}

// Set records version for table, inserting or updating its row as needed.
func (v *Versions) Set(ctx context.Context, table string, version int) error {
	if version <= 0 {
		return fmt.Errorf("%w: table %s: version must be positive, got %d", core.ErrConfiguration, table, version)
	}
	cur := v.Get(table)
	if cur != version {
		op := OpUpdate
		if cur == 0 {
			op = OpInsert
		}
		row := &versionEntry{name: table, version: version}
		if err := v.b.DoOperation(ctx, op, VersionTable, versionDescriptor, row); err != nil {
			return err
		}
	}
	if v.tables == nil {
		v.tables = make(map[string]int)
	}
	v.tables[table] = version
	return nil
}

// Tables returns a copy of the recorded versions.
func (v *Versions) Tables() map[string]int {
	return maps.Clone(v.tables)
}

// Names returns the recorded table names in sorted order.
func (v *Versions) Names() []string {
	return slices.Sorted(maps.Keys(v.tables))
}

// Index describes a secondary index on an entity table.
type Index struct {
	Name    string
	Columns []string
}

// CreateTable creates table from desc and records version for it.
func (b *Backend) CreateTable(ctx context.Context, table string, version int, desc *core.EntityDescriptor) error {
	b.logger.Debug("creating table", slog.String("table", table), slog.Int("version", version))
	if err := b.CreateTempTable(ctx, table, desc); err != nil {
		return err
	}
	return b.versions.Set(ctx, table, version)
}

// CreateTempTable creates table from desc without recording a version.
func (b *Backend) CreateTempTable(ctx context.Context, table string, desc *core.EntityDescriptor) error {
	infos, err := b.codecs.Describe(desc)
	if err != nil {
		b.setError(err)
		return err
	}
	if err := b.conn.CreateTable(ctx, table, infos); err != nil {
		return b.storageError("create table "+table, err)
	}
	return nil
}

// CreateIndex creates a non-unique index on table.
func (b *Backend) CreateIndex(ctx context.Context, table string, idx Index) error {
	if err := b.conn.CreateIndex(ctx, idx.Name, table, idx.Columns); err != nil {
		return b.storageError("create index "+idx.Name, err)
	}
	return nil
}

// UpgradeTable rebuilds table with the layout of desc by copying its rows
// into a new table that then replaces it.
func (b *Backend) UpgradeTable(ctx context.Context, table string, desc *core.EntityDescriptor) error {
	b.logger.Debug("upgrading table", slog.String("table", table))
	temp := table + "_new"
	if err := b.CreateTempTable(ctx, temp, desc); err != nil {
		return err
	}
	stmts := []string{
		"INSERT INTO " + temp + " SELECT * FROM " + table,
		"DROP TABLE " + table,
		"ALTER TABLE " + temp + " RENAME TO " + table,
	}
	for _, stmt := range stmts {
		if _, err := b.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddColumns appends the physical columns of cols to table.
func (b *Backend) AddColumns(ctx context.Context, table string, cols []core.ColumnDescriptor) error {
	desc := &core.EntityDescriptor{Table: table, Columns: cols}
	infos, err := b.codecs.Describe(desc)
	if err != nil {
		b.setError(err)
		return err
	}
	if err := b.conn.AddColumns(ctx, table, infos); err != nil {
		return b.storageError("add columns to "+table, err)
	}
	return nil
}

// UpgradeFunc migrates table from version from to the current layout.
type UpgradeFunc func(ctx context.Context, b *Backend, from int) error

// EnsureTable brings table to version. A missing table is created with its
// indexes. An older table is migrated with upgrade, or rebuilt from desc when
// upgrade is nil. During a full save any existing table is replaced.
func (b *Backend) EnsureTable(ctx context.Context, table string, version int, desc *core.EntityDescriptor, indexes []Index, upgrade UpgradeFunc) error {
	cur := b.versions.Get(table)
	switch {
	case cur == 0:
		exists, err := b.conn.TableExists(ctx, table)
		if err != nil {
			return b.storageError("check table "+table, err)
		}
		if exists {
			if !b.pristine {
				return b.versions.Set(ctx, table, version)
			}
			if _, err := b.Exec(ctx, "DROP TABLE "+table); err != nil {
				return err
			}
		}
		if err := b.CreateTable(ctx, table, version, desc); err != nil {
			return err
		}
		for _, idx := range indexes {
			if err := b.CreateIndex(ctx, table, idx); err != nil {
				return err
			}
		}
		return nil

	case cur < version:
		if upgrade != nil {
			if err := upgrade(ctx, b, cur); err != nil {
				return fmt.Errorf("failed to upgrade %s from version %d: %w", table, cur, err)
			}
		} else if err := b.UpgradeTable(ctx, table, desc); err != nil {
			return err
		}
		return b.versions.Set(ctx, table, version)
	}
	return nil
}
