package queryservice

import (
	"github.com/otelbridge/otel-bridge/internal/evalengine"
	"github.com/otelbridge/otel-bridge/internal/query"
	v1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
)

// rowValueToWire packs an evaluator RowValue onto the wire shape.
func rowValueToWire(rv query.RowValue) *v1.RowValue {
	out := &v1.RowValue{IsNull: rv.IsNull}
	if rv.IsNull {
		return out
	}
	out.StringValue = rv.String
	out.IntValue = rv.Int
	out.DoubleValue = rv.Double
	out.BoolValue = rv.Bool
	out.BytesValue = rv.Bytes
	if len(rv.KVList) > 0 {
		out.KvList = make([]*v1.KVPair, len(rv.KVList))
		for i, kv := range rv.KVList {
			out.KvList[i] = kvToWire(kv)
		}
	}
	return out
}

func kvToWire(kv query.KV) *v1.KVPair {
	rv := rowValueToWire(kv.Value)
	return &v1.KVPair{
		Key:         kv.Key,
		StringValue: rv.StringValue,
		IntValue:    rv.IntValue,
		DoubleValue: rv.DoubleValue,
		BoolValue:   rv.BoolValue,
		BytesValue:  rv.BytesValue,
		IsNull:      rv.IsNull,
	}
}

// rowToWire packs one evaluator Row onto the wire Row shape.
func rowToWire(r query.Row) *v1.Row {
	out := &v1.Row{Columns: r.Columns, Values: make([]*v1.RowValue, len(r.Values))}
	for i, v := range r.Values {
		out.Values[i] = rowValueToWire(v)
	}
	return out
}

func rowsToWire(rows []query.Row) []*v1.Row {
	out := make([]*v1.Row, len(rows))
	for i, r := range rows {
		out[i] = rowToWire(r)
	}
	return out
}

// traceGroupsToWire packs one evaluator TraceGroupRows per trace_id onto the
// wire shape, keeping each group's spans attached to its trace_id instead of
// flattening them the way rowsToWire/ProjectTraceRows does.
func traceGroupsToWire(groups []evalengine.TraceGroupRows) []*v1.TraceGroup {
	if len(groups) == 0 {
		return nil
	}
	out := make([]*v1.TraceGroup, len(groups))
	for i, g := range groups {
		out[i] = &v1.TraceGroup{TraceId: g.TraceID, Rows: rowsToWire(g.Rows)}
	}
	return out
}
