package store

import (
	"fmt"
	"strings"
)

// whereClause renders the shared QueryOpts filters. filterCol names the
// column Purpose or Workflow applies to; filterVal is its value.
func whereClause(opts QueryOpts, filterCol, filterVal string) (string, []any) {
	var conds []string
	var args []any

	if opts.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, opts.To.UnixMilli())
	}
	if filterVal != "" {
		conds = append(conds, filterCol+" = ?")
		args = append(args, filterVal)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
