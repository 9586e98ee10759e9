// Package query defines the shapes shared by the SQL parser, the evaluator,
// and the query gRPC surface: the virtual tables a query can target and the
// packed row/value types an evaluation projects onto.
package query

// TargetTable is the virtual table a SQL query selects from.
type TargetTable int

const (
	TargetTraces TargetTable = iota
	TargetLogs
	TargetMetrics
)

func (t TargetTable) String() string {
	switch t {
	case TargetTraces:
		return "traces"
	case TargetLogs:
		return "logs"
	case TargetMetrics:
		return "metrics"
	default:
		return "unknown"
	}
}

// RowValue is the discriminated value every projected column carries.
type RowValue struct {
	String  *string
	Int     *int64
	Double  *float64
	Bool    *bool
	Bytes   []byte
	KVList  []KV
	IsNull  bool
}

// KV is one entry of a packed kv-list column (resource / attributes).
type KV struct {
	Key   string
	Value RowValue
}

func StringValue(s string) RowValue  { return RowValue{String: &s} }
func NumberValue(n float64) RowValue { return RowValue{Double: &n} }
func NullValue() RowValue            { return RowValue{IsNull: true} }

// Row is an ordered list of named, typed columns.
type Row struct {
	Columns []string
	Values  []RowValue
}
