// Package evalengine evaluates a parsed sqlquery.Query against the store:
// per-record column resolution, WHERE matching, ORDER BY, LIMIT, and
// projection into query.Row. Traces/logs/metrics each get their own
// resolver table but share one FieldValue/SortValue comparison core, the
// same way the grammar they're evaluated against is shared.
package evalengine

import (
	"regexp"
	"strconv"
	"strings"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"

	"github.com/otelbridge/otel-bridge/internal/query"
	"github.com/otelbridge/otel-bridge/internal/sqlquery"
)

// FieldValueKind discriminates a resolved column value.
type FieldValueKind int

const (
	FieldString FieldValueKind = iota
	FieldNumber
	FieldNull
)

type FieldValue struct {
	Kind FieldValueKind
	Str  string
	Num  float64
}

func StringField(s string) FieldValue { return FieldValue{Kind: FieldString, Str: s} }
func NumberField(n float64) FieldValue { return FieldValue{Kind: FieldNumber, Num: n} }
func NullField() FieldValue            { return FieldValue{Kind: FieldNull} }

type SortValueKind int

const (
	SortString SortValueKind = iota
	SortNumber
	SortNull
)

type SortValue struct {
	Kind SortValueKind
	Str  string
	Num  float64
}

func fieldToSort(fv FieldValue) SortValue {
	switch fv.Kind {
	case FieldString:
		return SortValue{Kind: SortString, Str: fv.Str}
	case FieldNumber:
		return SortValue{Kind: SortNumber, Num: fv.Num}
	default:
		return SortValue{Kind: SortNull}
	}
}

// CompareSortValues orders Null first, then Number before String across
// mixed types, matching the original's partial_cmp-with-Null-low rule.
func CompareSortValues(a, b SortValue) int {
	switch {
	case a.Kind == SortNumber && b.Kind == SortNumber:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	case a.Kind == SortString && b.Kind == SortString:
		return strings.Compare(a.Str, b.Str)
	case a.Kind == SortNull && b.Kind == SortNull:
		return 0
	case a.Kind == SortNull:
		return -1
	case b.Kind == SortNull:
		return 1
	case a.Kind == SortNumber && b.Kind == SortString:
		return -1
	default:
		return 1
	}
}

// CompareFieldValue applies the dialect's cross-type comparison rules: same
// types compare directly; a string field against a numeric literal (or vice
// versa) is parsed as a number, falling back to "only != succeeds" when the
// parse fails; Null only satisfies !=; a boolean literal never compares
// equal to anything.
func CompareFieldValue(field FieldValue, op sqlquery.CompOp, value sqlquery.Value) bool {
	if value.Kind == sqlquery.ValBoolean {
		return op == sqlquery.OpNotEq
	}
	if field.Kind == FieldNull {
		return op == sqlquery.OpNotEq
	}

	if field.Kind == FieldString && value.Kind == sqlquery.ValString {
		return compareOrdered(strings.Compare(field.Str, value.Str), op)
	}
	if field.Kind == FieldNumber && value.Kind == sqlquery.ValNumber {
		return compareFloat(field.Num, value.Num, op)
	}
	if field.Kind == FieldString && value.Kind == sqlquery.ValNumber {
		n, err := strconv.ParseFloat(field.Str, 64)
		if err != nil {
			return op == sqlquery.OpNotEq
		}
		return compareFloat(n, value.Num, op)
	}
	if field.Kind == FieldNumber && value.Kind == sqlquery.ValString {
		n, err := strconv.ParseFloat(value.Str, 64)
		if err != nil {
			return op == sqlquery.OpNotEq
		}
		return compareFloat(field.Num, n, op)
	}
	return op == sqlquery.OpNotEq
}

func compareOrdered(cmp int, op sqlquery.CompOp) bool {
	switch op {
	case sqlquery.OpEq:
		return cmp == 0
	case sqlquery.OpNotEq:
		return cmp != 0
	case sqlquery.OpLt:
		return cmp < 0
	case sqlquery.OpGt:
		return cmp > 0
	case sqlquery.OpLtEq:
		return cmp <= 0
	case sqlquery.OpGtEq:
		return cmp >= 0
	}
	return false
}

func compareFloat(a, b float64, op sqlquery.CompOp) bool {
	switch op {
	case sqlquery.OpEq:
		return a == b
	case sqlquery.OpNotEq:
		return a != b
	case sqlquery.OpLt:
		return a < b
	case sqlquery.OpGt:
		return a > b
	case sqlquery.OpLtEq:
		return a <= b
	case sqlquery.OpGtEq:
		return a >= b
	}
	return false
}

func FieldValueToString(fv FieldValue) string {
	switch fv.Kind {
	case FieldString:
		return fv.Str
	case FieldNumber:
		return strconv.FormatFloat(fv.Num, 'g', -1, 64)
	default:
		return ""
	}
}

// LikeMatch translates the SQL LIKE pattern (% any run, _ any char) into an
// anchored regex. An invalid pattern never matches rather than erroring.
func LikeMatch(value, pattern string) bool {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// RegexMatch applies the ~ / !~ operators' pattern unanchored. An invalid
// pattern never matches rather than erroring.
func RegexMatch(value, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// LookupAttribute finds key in attrs and converts its AnyValue, matching
// the wire-type-to-FieldValue mapping used for both attributes and
// resource bracket access. Bool values render as their string form so
// equality/LIKE comparisons stay string-shaped, same as every other
// non-numeric AnyValue variant.
func LookupAttribute(attrs []*commonpb.KeyValue, key string) FieldValue {
	for _, kv := range attrs {
		if kv.Key != key {
			continue
		}
		v := kv.Value
		if v == nil {
			return NullField()
		}
		switch val := v.Value.(type) {
		case *commonpb.AnyValue_StringValue:
			return StringField(val.StringValue)
		case *commonpb.AnyValue_IntValue:
			return NumberField(float64(val.IntValue))
		case *commonpb.AnyValue_DoubleValue:
			return NumberField(val.DoubleValue)
		case *commonpb.AnyValue_BoolValue:
			return StringField(strconv.FormatBool(val.BoolValue))
		default:
			return StringField(ExtractAnyValueString(v))
		}
	}
	return NullField()
}

// ExtractAnyValueString renders any AnyValue variant as a display string,
// used for log bodies and the attribute-lookup fallback.
func ExtractAnyValueString(v *commonpb.AnyValue) string {
	if v == nil {
		return ""
	}
	switch val := v.Value.(type) {
	case *commonpb.AnyValue_StringValue:
		return val.StringValue
	case *commonpb.AnyValue_BoolValue:
		return strconv.FormatBool(val.BoolValue)
	case *commonpb.AnyValue_IntValue:
		return strconv.FormatInt(val.IntValue, 10)
	case *commonpb.AnyValue_DoubleValue:
		return strconv.FormatFloat(val.DoubleValue, 'g', -1, 64)
	case *commonpb.AnyValue_BytesValue:
		return hexEncode(val.BytesValue)
	default:
		return ""
	}
}

func hexEncode(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}

// GetServiceName reads the service.name resource attribute, or "" if unset.
func GetServiceName(resource *resourcepb.Resource) string {
	if resource == nil {
		return ""
	}
	for _, kv := range resource.Attributes {
		if kv.Key != "service.name" {
			continue
		}
		if s, ok := kv.Value.GetValue().(*commonpb.AnyValue_StringValue); ok {
			return s.StringValue
		}
		return ""
	}
	return ""
}

func resourceAttrs(resource *resourcepb.Resource) []*commonpb.KeyValue {
	if resource == nil {
		return nil
	}
	return resource.Attributes
}

// AnyValueToRowValue converts a wire AnyValue to the typed row value the
// query response packs, preserving int/double/bool/bytes distinctly rather
// than collapsing everything to a string the way LookupAttribute's
// FieldValue (used for WHERE comparisons) does.
func AnyValueToRowValue(v *commonpb.AnyValue) query.RowValue {
	if v == nil {
		return query.NullValue()
	}
	switch val := v.Value.(type) {
	case *commonpb.AnyValue_StringValue:
		return query.StringValue(val.StringValue)
	case *commonpb.AnyValue_IntValue:
		n := val.IntValue
		return query.RowValue{Int: &n}
	case *commonpb.AnyValue_DoubleValue:
		return query.NumberValue(val.DoubleValue)
	case *commonpb.AnyValue_BoolValue:
		b := val.BoolValue
		return query.RowValue{Bool: &b}
	case *commonpb.AnyValue_BytesValue:
		return query.RowValue{Bytes: val.BytesValue}
	default:
		return query.StringValue(ExtractAnyValueString(v))
	}
}

// KVsToRowKVList packs a slice of wire KeyValue pairs as an ordered kv-list
// row column, preserving order as required by the row-packing contract.
func KVsToRowKVList(attrs []*commonpb.KeyValue) []query.KV {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]query.KV, len(attrs))
	for i, kv := range attrs {
		out[i] = query.KV{Key: kv.Key, Value: AnyValueToRowValue(kv.Value)}
	}
	return out
}
