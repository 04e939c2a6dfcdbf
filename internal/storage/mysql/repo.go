package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"trip_planner/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertItinerary replaces the stored day plan wholesale: the itinerary
// row is upserted, then its stop rows are rewritten inside one tx so a
// reader never observes a half-saved plan.
func (r *Repo) UpsertItinerary(ctx context.Context, it domain.Itinerary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertItinerarySQL, it.ID, it.Title); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deletePoisSQL, it.ID); err != nil {
		return err
	}

	values := make([]string, 0, it.StopCount())
	args := make([]any, 0, it.StopCount()*4)
	for _, d := range it.Days {
		for pos, ref := range d.Pois {
			values = append(values, "(?,?,?,?)")
			args = append(args, it.ID, d.Number, pos, ref.PoiID)
		}
	}
	if len(values) > 0 {
		sqlStr := insertPoisPrefix + strings.Join(values, ",")
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) GetItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	rows, err := r.db.QueryContext(ctx, getItinerarySQL, id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	defer rows.Close()

	it := domain.Itinerary{ID: id}
	found := false
	for rows.Next() {
		var (
			title     string
			dayNumber sql.NullInt64
			poiID     sql.NullString
		)
		if err := rows.Scan(&title, &dayNumber, &poiID); err != nil {
			return domain.Itinerary{}, err
		}
		found = true
		it.Title = title
		if !dayNumber.Valid {
			continue // itinerary exists but has no stops
		}
		n := int(dayNumber.Int64)
		if len(it.Days) == 0 || it.Days[len(it.Days)-1].Number != n {
			it.Days = append(it.Days, domain.Day{Number: n})
		}
		last := &it.Days[len(it.Days)-1]
		last.Pois = append(last.Pois, domain.POIRef{PoiID: poiID.String})
	}
	if err := rows.Err(); err != nil {
		return domain.Itinerary{}, err
	}
	if !found {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	return it, nil
}

func (r *Repo) ListTrips(ctx context.Context, limit int) ([]domain.TripCard, error) {
	rows, err := r.db.QueryContext(ctx, listTripsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TripCard
	for rows.Next() {
		var tc domain.TripCard
		if err := rows.Scan(&tc.ID, &tc.Title, &tc.Days, &tc.Stops, &tc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.Email, u.Name, u.PasswordHash)
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return domain.ErrUserExists
	}
	return err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, getUserSQL, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
