package domain

// Row is one result row, a mapping from column name to scalar.
type Row map[string]any

// ResultSet is the ordered output of one query execution with a fixed
// column schema. It is immutable once produced; cached entries share it.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}
