package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/a-h/insightengine/models"
	"github.com/rqlite/gorqlite"
)

func New(conn *gorqlite.Connection) *Queries {
	return &Queries{
		conn: conn,
	}
}

// Queries stores generated reports. Reports are only ever written by the
// generation path and read back on request, they're never used to skip
// generation.
type Queries struct {
	conn *gorqlite.Connection
}

type Report struct {
	ID        int64
	Partition string
	Thesis    string
	Summary   models.Summary
	CreatedAt time.Time
}

type ReportPutArgs struct {
	Partition string
	Thesis    string
	Summary   models.Summary
	CreatedAt time.Time
}

func (q *Queries) ReportPut(ctx context.Context, args ReportPutArgs) (id int64, err error) {
	summaryJSON, err := json.Marshal(args.Summary)
	if err != nil {
		return 0, fmt.Errorf("db: failed to marshal summary: %w", err)
	}
	stmt := gorqlite.ParameterizedStatement{
		Query:     `insert into report (partition, thesis, title, summary, created_at) values (?, ?, ?, ?, ?)`,
		Arguments: []any{args.Partition, args.Thesis, args.Summary.Title, string(summaryJSON), args.CreatedAt},
	}
	result, err := q.conn.WriteOneParameterizedContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("db: failed to insert report: %w", err)
	}
	if result.LastInsertID == 0 {
		return 0, fmt.Errorf("db: expected a non-zero report ID")
	}
	return result.LastInsertID, nil
}

func (q *Queries) ReportGet(ctx context.Context, partition string, id int64) (r Report, ok bool, err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `select id, partition, thesis, summary, created_at from report where partition = ? and id = ?`,
		Arguments: []any{partition, id},
	}
	result, err := q.conn.QueryOneParameterizedContext(ctx, stmt)
	if err != nil {
		return r, false, err
	}
	if !result.Next() {
		return r, false, nil
	}
	if r, err = scanReport(&result); err != nil {
		return r, false, err
	}
	return r, true, nil
}

type ReportListArgs struct {
	Partition string
	Limit     int
}

// ReportList returns the most recent reports first.
func (q *Queries) ReportList(ctx context.Context, args ReportListArgs) (reports []Report, err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query: `select id, partition, thesis, summary, created_at
from report
where partition = ?
order by created_at desc, id desc
limit ?`,
		Arguments: []any{args.Partition, args.Limit},
	}
	result, err := q.conn.QueryOneParameterizedContext(ctx, stmt)
	if err != nil {
		return reports, err
	}
	for result.Next() {
		r, err := scanReport(&result)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// ReportDelete returns ok=false if the partition has no report with the id.
func (q *Queries) ReportDelete(ctx context.Context, partition string, id int64) (ok bool, err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `delete from report where partition = ? and id = ?`,
		Arguments: []any{partition, id},
	}
	wr, err := q.conn.WriteOneParameterizedContext(ctx, stmt)
	if err != nil {
		return false, err
	}
	return wr.RowsAffected > 0, nil
}

func scanReport(result *gorqlite.QueryResult) (r Report, err error) {
	var summaryJSON string
	if err = result.Scan(&r.ID, &r.Partition, &r.Thesis, &summaryJSON, &r.CreatedAt); err != nil {
		return r, err
	}
	if err = json.Unmarshal([]byte(summaryJSON), &r.Summary); err != nil {
		return r, fmt.Errorf("db: failed to unmarshal summary of report %d: %w", r.ID, err)
	}
	return r, nil
}
