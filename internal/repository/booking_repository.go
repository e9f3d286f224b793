package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/estadio/futsal-booking/internal/booking"
    "github.com/estadio/futsal-booking/internal/model"
)

// BookingRepo provides CRUD operations for booking rows. Each row is
// one hour on one field; the bookings table carries a generated
// active_slot column that is non-NULL only while the row is pending or
// confirmed, and a unique key over (field_id, booking_date, start_time,
// active_slot). The database therefore rejects a second active booking
// for the same slot, no matter how the insert raced in. All timestamp
// fields are assumed to be stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const duplicateKeyErr = 1062

// isDuplicateKey reports whether err is the MySQL duplicate-entry
// error raised by the active slot unique key.
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == duplicateKeyErr
}

// hourToTime renders an hour-of-day as a MySQL TIME literal.
func hourToTime(hour int) string { return fmt.Sprintf("%02d:00:00", hour) }

// timeToHour parses the hour component out of a MySQL TIME value.
func timeToHour(s string) (int, error) {
    if len(s) < 2 {
        return 0, fmt.Errorf("malformed time value %q", s)
    }
    return strconv.Atoi(s[:2])
}

const bookingColumns = `b.id, b.group_id, b.field_id, b.booking_date, b.start_time,
    b.user_id, b.customer_name, b.status, b.payment_method, b.is_walk_in,
    b.proof_image_url, b.payment_deadline, b.created_at, b.updated_at`

// scanBooking reads one row of bookingColumns plus a trailing resolved
// display name into a booking.Row.
func scanBooking(scan func(dest ...interface{}) error) (booking.Row, error) {
    var (
        row      booking.Row
        start    string
        userID   sql.NullInt64
        custName sql.NullString
        proof    sql.NullString
        deadline sql.NullTime
        display  sql.NullString
    )
    err := scan(
        &row.ID, &row.GroupID, &row.FieldID, &row.Date, &start,
        &userID, &custName, &row.Status, &row.PaymentMethod, &row.IsWalkIn,
        &proof, &deadline, &row.CreatedAt, &row.UpdatedAt,
        &display,
    )
    if err != nil {
        return booking.Row{}, err
    }
    hour, err := timeToHour(start)
    if err != nil {
        return booking.Row{}, err
    }
    row.StartHour = hour
    if userID.Valid {
        uid := uint64(userID.Int64)
        row.UserID = &uid
    }
    if custName.Valid {
        name := custName.String
        row.CustomerName = &name
    }
    if proof.Valid {
        p := proof.String
        row.ProofImageURL = &p
    }
    if deadline.Valid {
        d := deadline.Time.UTC()
        row.PaymentDeadline = &d
    }
    switch {
    case display.Valid && display.String != "":
        row.DisplayName = display.String
    case custName.Valid:
        row.DisplayName = custName.String
    default:
        row.DisplayName = "Guest"
    }
    return row, nil
}

// queryRows runs a query whose column list is bookingColumns plus a
// display name and collects the result.
func (r *BookingRepo) queryRows(ctx context.Context, q string, args ...interface{}) ([]booking.Row, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]booking.Row, 0)
    for rows.Next() {
        row, err := scanBooking(rows.Scan)
        if err != nil {
            return nil, err
        }
        out = append(out, row)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// InsertHours writes every hour-row of one booking submission inside a
// single transaction. Either all of the requested hours are written or
// none are: when any insert trips the active slot unique key the whole
// transaction rolls back and ErrDuplicateSlot is returned, so a partial
// booking can never appear in the table. The rows share the group id,
// status, payment fields and deadline carried on each model.Booking.
func (r *BookingRepo) InsertHours(ctx context.Context, rows []model.Booking) error {
    if len(rows) == 0 {
        return nil
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    const q = `INSERT INTO bookings
        (group_id, field_id, booking_date, start_time, user_id, customer_name,
         status, payment_method, is_walk_in, proof_image_url, payment_deadline)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    for _, b := range rows {
        _, err := tx.ExecContext(ctx, q,
            b.GroupID, b.FieldID, b.Date, hourToTime(b.StartHour),
            b.UserID, b.CustomerName, b.Status, b.PaymentMethod,
            b.IsWalkIn, b.ProofImageURL, b.PaymentDeadline,
        )
        if err != nil {
            if isDuplicateKey(err) {
                return ErrDuplicateSlot
            }
            return err
        }
    }
    return tx.Commit()
}

// BookedStartHours returns the hours of a given field and date that
// hold an active (pending or confirmed) booking. Cancelled rows do not
// block a slot and are excluded.
func (r *BookingRepo) BookedStartHours(ctx context.Context, fieldID uint64, date string) ([]int, error) {
    const q = `SELECT start_time FROM bookings
               WHERE field_id = ? AND booking_date = ? AND status <> ?`
    rows, err := r.db.QueryContext(ctx, q, fieldID, date, model.StatusCancelled)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    hours := make([]int, 0)
    for rows.Next() {
        var start string
        if err := rows.Scan(&start); err != nil {
            return nil, err
        }
        h, err := timeToHour(start)
        if err != nil {
            return nil, err
        }
        hours = append(hours, h)
    }
    return hours, rows.Err()
}

// ListByUser returns every booking row belonging to the given user,
// newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]booking.Row, error) {
    q := `SELECT ` + bookingColumns + `, u.full_name
          FROM bookings b
          LEFT JOIN users u ON u.id = b.user_id
          WHERE b.user_id = ?
          ORDER BY b.created_at DESC, b.start_time ASC`
    return r.queryRows(ctx, q, userID)
}

// BookingFilter narrows the admin booking listing. Zero values mean
// no restriction on that dimension.
type BookingFilter struct {
    Date    string
    Status  string
    FieldID uint64
}

// ListAll returns booking rows for the admin ledger view, resolving
// each row's display name from the users table (walk-ins keep the name
// recorded on the row). Rows are ordered newest first.
func (r *BookingRepo) ListAll(ctx context.Context, f BookingFilter) ([]booking.Row, error) {
    q := `SELECT ` + bookingColumns + `, u.full_name
          FROM bookings b
          LEFT JOIN users u ON u.id = b.user_id`
    conds := make([]string, 0, 3)
    args := make([]interface{}, 0, 3)
    if f.Date != "" {
        conds = append(conds, "b.booking_date = ?")
        args = append(args, f.Date)
    }
    if f.Status != "" {
        conds = append(conds, "b.status = ?")
        args = append(args, f.Status)
    }
    if f.FieldID != 0 {
        conds = append(conds, "b.field_id = ?")
        args = append(args, f.FieldID)
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY b.created_at DESC, b.start_time ASC"
    return r.queryRows(ctx, q, args...)
}

// ListByGroup returns every row sharing a group id, in hour order.
func (r *BookingRepo) ListByGroup(ctx context.Context, groupID string) ([]booking.Row, error) {
    q := `SELECT ` + bookingColumns + `, u.full_name
          FROM bookings b
          LEFT JOIN users u ON u.id = b.user_id
          WHERE b.group_id = ?
          ORDER BY b.start_time ASC`
    rows, err := r.queryRows(ctx, q, groupID)
    if err != nil {
        return nil, err
    }
    if len(rows) == 0 {
        return nil, ErrNotFound
    }
    return rows, nil
}

// UpdateStatusByIDs transitions the listed rows to newStatus, but only
// those still in expectedCurrent. The WHERE guard makes the update a
// compare-and-set: rows that moved on since the caller read them are
// left untouched, and the number of rows actually changed is returned
// so the caller can detect a lost race.
func (r *BookingRepo) UpdateStatusByIDs(ctx context.Context, ids []uint64, newStatus, expectedCurrent string) (int64, error) {
    if len(ids) == 0 {
        return 0, nil
    }
    placeholders := make([]string, len(ids))
    args := make([]interface{}, 0, len(ids)+2)
    args = append(args, newStatus)
    for i, id := range ids {
        placeholders[i] = "?"
        args = append(args, id)
    }
    args = append(args, expectedCurrent)
    q := `UPDATE bookings SET status = ?
          WHERE id IN (` + strings.Join(placeholders, ",") + `) AND status = ?`
    res, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        if isDuplicateKey(err) {
            return 0, ErrDuplicateSlot
        }
        return 0, err
    }
    return res.RowsAffected()
}

// CancelGroupForUser cancels every still-pending row of a booking
// group after verifying the group belongs to the calling user. It
// returns ErrNotFound when the group does not exist, ErrForbidden when
// it belongs to someone else and ErrConflict when no row was still
// pending (the booking was already decided).
func (r *BookingRepo) CancelGroupForUser(ctx context.Context, groupID string, userID uint64) error {
    const checkQ = `SELECT user_id FROM bookings WHERE group_id = ? LIMIT 1`
    var owner sql.NullInt64
    err := r.db.QueryRowContext(ctx, checkQ, groupID).Scan(&owner)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    if !owner.Valid || uint64(owner.Int64) != userID {
        return ErrForbidden
    }
    const q = `UPDATE bookings SET status = ?
               WHERE group_id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, model.StatusCancelled, groupID, model.StatusPending)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// AttachProof records the payment proof URL on every pending
// bank-transfer row of the user's booking group. Ownership is enforced
// the same way as CancelGroupForUser.
func (r *BookingRepo) AttachProof(ctx context.Context, groupID string, userID uint64, proofURL string) error {
    const checkQ = `SELECT user_id FROM bookings WHERE group_id = ? LIMIT 1`
    var owner sql.NullInt64
    err := r.db.QueryRowContext(ctx, checkQ, groupID).Scan(&owner)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    if !owner.Valid || uint64(owner.Int64) != userID {
        return ErrForbidden
    }
    const q = `UPDATE bookings SET proof_image_url = ?
               WHERE group_id = ? AND status = ? AND payment_method = ?`
    res, err := r.db.ExecContext(ctx, q, proofURL, groupID, model.StatusPending, model.PaymentBankTransfer)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// ExpireOverdue cancels every pending pay-on-site row whose payment
// deadline has passed. The status guard in the WHERE clause makes the
// sweep idempotent and keeps it from ever touching a booking an admin
// confirmed after the deadline was set. It returns the number of rows
// cancelled and the affected group ids for logging and cache purges.
func (r *BookingRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, []string, error) {
    const selQ = `SELECT DISTINCT group_id FROM bookings
                  WHERE status = ? AND payment_method = ? AND payment_deadline <= ?`
    rows, err := r.db.QueryContext(ctx, selQ, model.StatusPending, model.PaymentOnSite, now.UTC())
    if err != nil {
        return 0, nil, err
    }
    groups := make([]string, 0)
    for rows.Next() {
        var g string
        if err := rows.Scan(&g); err != nil {
            rows.Close()
            return 0, nil, err
        }
        groups = append(groups, g)
    }
    if err := rows.Err(); err != nil {
        rows.Close()
        return 0, nil, err
    }
    rows.Close()
    if len(groups) == 0 {
        return 0, nil, nil
    }

    const q = `UPDATE bookings SET status = ?
               WHERE status = ? AND payment_method = ? AND payment_deadline <= ?`
    res, err := r.db.ExecContext(ctx, q, model.StatusCancelled, model.StatusPending, model.PaymentOnSite, now.UTC())
    if err != nil {
        return 0, nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, nil, err
    }
    return n, groups, nil
}

// ListNotificationsForUser returns the user's decided booking rows
// (anything no longer pending), most recently updated first. Each
// status change by an admin or by the expiry sweep bumps updated_at,
// which is what surfaces the row at the top of the feed.
func (r *BookingRepo) ListNotificationsForUser(ctx context.Context, userID uint64, limit int) ([]booking.Row, error) {
    q := `SELECT ` + bookingColumns + `, u.full_name
          FROM bookings b
          LEFT JOIN users u ON u.id = b.user_id
          WHERE b.user_id = ? AND b.status <> ?
          ORDER BY b.updated_at DESC
          LIMIT ?`
    return r.queryRows(ctx, q, userID, model.StatusPending, limit)
}

// RevenueRow is one line of the revenue report: confirmed hours and
// their value for a single day.
type RevenueRow struct {
    Date  string `json:"date"`
    Hours int64  `json:"hours"`
}

// ConfirmedHoursByDay aggregates confirmed booking hours per day over
// the inclusive date range. Only confirmed rows count as revenue;
// pending rows may still evaporate and cancelled rows never earned
// anything.
func (r *BookingRepo) ConfirmedHoursByDay(ctx context.Context, from, to string) ([]RevenueRow, error) {
    const q = `SELECT booking_date, COUNT(*) FROM bookings
               WHERE status = ? AND booking_date BETWEEN ? AND ?
               GROUP BY booking_date
               ORDER BY booking_date`
    rows, err := r.db.QueryContext(ctx, q, model.StatusConfirmed, from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]RevenueRow, 0)
    for rows.Next() {
        var rr RevenueRow
        if err := rows.Scan(&rr.Date, &rr.Hours); err != nil {
            return nil, err
        }
        out = append(out, rr)
    }
    return out, rows.Err()
}

// DayStats holds the per-status row counts for a single day, used by
// the admin dashboard.
type DayStats struct {
    Pending   int64 `json:"pending"`
    Confirmed int64 `json:"confirmed"`
    Cancelled int64 `json:"cancelled"`
}

// StatsForDate counts booking rows per status for the given date.
func (r *BookingRepo) StatsForDate(ctx context.Context, date string) (DayStats, error) {
    return r.StatsForRange(ctx, date, date)
}

// StatsForRange counts booking rows per status over the inclusive date
// range. The counts are hour-rows, not logical bookings, which is the
// unit the revenue report works in.
func (r *BookingRepo) StatsForRange(ctx context.Context, from, to string) (DayStats, error) {
    const q = `SELECT status, COUNT(*) FROM bookings
               WHERE booking_date BETWEEN ? AND ? GROUP BY status`
    rows, err := r.db.QueryContext(ctx, q, from, to)
    if err != nil {
        return DayStats{}, err
    }
    defer rows.Close()
    var st DayStats
    for rows.Next() {
        var status string
        var n int64
        if err := rows.Scan(&status, &n); err != nil {
            return DayStats{}, err
        }
        switch status {
        case model.StatusPending:
            st.Pending = n
        case model.StatusConfirmed:
            st.Confirmed = n
        case model.StatusCancelled:
            st.Cancelled = n
        }
    }
    return st, rows.Err()
}

// ListRecent returns the most recently created booking rows across all
// users, for the dashboard's activity feed. The limit applies to raw
// rows; callers aggregate them into groups before display.
func (r *BookingRepo) ListRecent(ctx context.Context, limit int) ([]booking.Row, error) {
    q := `SELECT ` + bookingColumns + `, u.full_name
          FROM bookings b
          LEFT JOIN users u ON u.id = b.user_id
          ORDER BY b.created_at DESC, b.id DESC
          LIMIT ?`
    return r.queryRows(ctx, q, limit)
}
