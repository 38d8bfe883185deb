package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
)

// Postgres keeps the catalog in PostgreSQL. Save replaces the stored catalog
// with the provided snapshot inside one transaction, which makes the
// read-modify-write cycle behave like the file backend: last writer wins.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres builds a postgres store over an open connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

type restaurantRow struct {
	ID       int64    `db:"id"`
	Region   string   `db:"region"`
	Position int      `db:"position"`
	Name     string   `db:"name"`
	Address  string   `db:"address"`
	Phone    string   `db:"phone"`
	Lat      *float64 `db:"lat"`
	Lon      *float64 `db:"lon"`
	Rating   int      `db:"rating"`
}

type menuRow struct {
	RestaurantID int64  `db:"restaurant_id"`
	Position     int    `db:"position"`
	Item         string `db:"item"`
}

type sampleRow struct {
	RestaurantID int64 `db:"restaurant_id"`
	Value        int   `db:"value"`
}

// Load assembles a snapshot from the restaurants, menu_items and
// rating_samples tables.
func (p *Postgres) Load(ctx context.Context) (catalog.Snapshot, error) {
	var restaurants []restaurantRow
	if err := p.db.SelectContext(ctx, &restaurants,
		`SELECT id, region, position, name, address, phone, lat, lon, rating
		   FROM restaurants
		  ORDER BY region, position`,
	); err != nil {
		logger.Error(ctx, "store", "catalog.load_failed",
			slog.String("backend", "postgres"),
			slog.String("err", err.Error()),
		)
		return catalog.NewSnapshot(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var menus []menuRow
	if err := p.db.SelectContext(ctx, &menus,
		`SELECT restaurant_id, position, item FROM menu_items ORDER BY restaurant_id, position`,
	); err != nil {
		return catalog.NewSnapshot(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var samples []sampleRow
	if err := p.db.SelectContext(ctx, &samples,
		`SELECT restaurant_id, value FROM rating_samples ORDER BY id`,
	); err != nil {
		return catalog.NewSnapshot(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	menuByID := make(map[int64][]string)
	for _, m := range menus {
		menuByID[m.RestaurantID] = append(menuByID[m.RestaurantID], m.Item)
	}
	samplesByID := make(map[int64][]int)
	for _, s := range samples {
		samplesByID[s.RestaurantID] = append(samplesByID[s.RestaurantID], s.Value)
	}

	snap := catalog.NewSnapshot()
	for _, row := range restaurants {
		snap.Regions[row.Region] = append(snap.Regions[row.Region], catalog.Restaurant{
			Name:    row.Name,
			Menu:    menuByID[row.ID],
			Address: row.Address,
			Phone:   row.Phone,
			Lat:     row.Lat,
			Lon:     row.Lon,
			Rating:  row.Rating,
			Samples: samplesByID[row.ID],
		})
	}
	return snap, nil
}

// Save replaces the stored catalog with the snapshot in one transaction.
func (p *Postgres) Save(ctx context.Context, snap catalog.Snapshot) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM restaurants`); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	for _, region := range snap.RegionKeys() {
		for pos, r := range snap.Regions[region] {
			var id int64
			err := tx.QueryRowxContext(ctx,
				`INSERT INTO restaurants (region, position, name, address, phone, lat, lon, rating)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				 RETURNING id`,
				region, pos, r.Name, r.Address, r.Phone, r.Lat, r.Lon, r.Rating,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrWrite, err)
			}
			for i, item := range r.Menu {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO menu_items (restaurant_id, position, item) VALUES ($1, $2, $3)`,
					id, i, item,
				); err != nil {
					return fmt.Errorf("%w: %v", ErrWrite, err)
				}
			}
			for _, v := range r.Samples {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO rating_samples (restaurant_id, value) VALUES ($1, $2)`,
					id, v,
				); err != nil {
					return fmt.Errorf("%w: %v", ErrWrite, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	logger.Debug(ctx, "store", "catalog.saved",
		slog.String("backend", "postgres"),
		slog.Int("regions", len(snap.Regions)),
	)
	return nil
}
