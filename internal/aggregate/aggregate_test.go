package aggregate

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datachat-resultview/internal/model"
	"datachat-resultview/internal/schema"
)

func rowsOf(t *testing.T, payload string) []model.Record {
	t.Helper()
	res := schema.Infer([]byte(payload))
	require.Empty(t, res.PlainText)
	return res.Rows
}

func TestAggregate_SumByBranch(t *testing.T) {
	rows := rowsOf(t, `{"answer": [{"branch_name":"NY","deposits":100},{"branch_name":"LA","deposits":200}]}`)

	p, err := Aggregate(rows, Spec{GroupBy: "branch_name", Reducer: Sum})
	require.NoError(t, err)

	assert.Equal(t, "branch_name", p.IndexKey)
	assert.Equal(t, "deposits", p.ValueKey)
	assert.Equal(t, []string{DefaultSeries}, p.SeriesNames)
	assert.Equal(t, []Row{
		{Index: "NY", Values: map[string]float64{"value": 100}},
		{Index: "LA", Values: map[string]float64{"value": 200}},
	}, p.Rows)

	recs := p.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"branch_name", "value"}, recs[0].Keys)
}

func TestPivot_RecordsKeepIndexWhenSeriesSharesItsName(t *testing.T) {
	rows := rowsOf(t, `[{"value":"NY","amt":3},{"value":"LA","amt":5}]`)

	p, err := Aggregate(rows, Spec{GroupBy: "value", Reducer: Sum})
	require.NoError(t, err)
	require.Equal(t, "value", p.IndexKey)
	require.Equal(t, []string{DefaultSeries}, p.SeriesNames)

	recs := p.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"value", "value_sum"}, recs[0].Keys)
	assert.Equal(t, "NY", recs[0].Values["value"])
	assert.Equal(t, 3.0, recs[0].Values["value_sum"])

	cols := p.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, model.Column{Key: "value", Label: "Value", Kind: model.KindText}, cols[0])
	assert.Equal(t, model.Column{Key: "value_sum", Label: "Value Sum", Kind: model.KindNumeric}, cols[1])
}

func TestPivot_SeriesColumnsAvoidTakenKeys(t *testing.T) {
	p := Pivot{IndexKey: "x", SeriesNames: []string{"x", "x_sum"}, Reducer: Sum}
	assert.Equal(t, map[string]string{"x": "x_sum_", "x_sum": "x_sum"}, p.SeriesColumns())
}

func TestAggregate_Reducers(t *testing.T) {
	rows := rowsOf(t, `[
		{"region":"north","amount":10},
		{"region":"north","amount":20},
		{"region":"south","amount":-5},
		{"region":"south","amount":-15}
	]`)

	tests := []struct {
		reducer      Reducer
		north, south float64
	}{
		{Sum, 30, -20},
		{Count, 2, 2},
		{Avg, 15, -10},
		{Min, 10, -15},
		{Max, 20, -5},
	}
	for _, tt := range tests {
		t.Run(string(tt.reducer), func(t *testing.T) {
			p, err := Aggregate(rows, Spec{GroupBy: "region", ValueKey: "amount", Reducer: tt.reducer})
			require.NoError(t, err)
			require.Len(t, p.Rows, 2)
			assert.Equal(t, tt.north, p.Rows[0].Values[DefaultSeries])
			assert.Equal(t, tt.south, p.Rows[1].Values[DefaultSeries])
		})
	}
}

func TestAggregate_AvgIsNotSum(t *testing.T) {
	rows := rowsOf(t, `[{"k":"a","v":10},{"k":"a","v":20}]`)

	p, err := Aggregate(rows, Spec{GroupBy: "k", Reducer: Avg})
	require.NoError(t, err)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, 15.0, p.Rows[0].Values[DefaultSeries])
}

func TestAggregate_SeriesSplitIsDense(t *testing.T) {
	rows := rowsOf(t, `[
		{"branch":"NY","product":"loan","amount":5},
		{"branch":"NY","product":"card","amount":7},
		{"branch":"LA","product":"loan","amount":3},
		{"branch":"SF","product":"fund","amount":1}
	]`)

	p, err := Aggregate(rows, Spec{GroupBy: "branch", Reducer: Sum})
	require.NoError(t, err)

	assert.Equal(t, "branch", p.IndexKey)
	assert.Equal(t, "product", p.SeriesKey)
	assert.Equal(t, []string{"loan", "card", "fund"}, p.SeriesNames)

	want := keysOf(p.Rows[0].Values)
	for _, r := range p.Rows {
		assert.Equal(t, want, keysOf(r.Values), "row %s", r.Index)
	}
	assert.Equal(t, 0.0, p.Rows[1].Values["card"])
	assert.Equal(t, 1.0, p.Rows[2].Values["fund"])
}

func TestAggregate_ExplicitSeriesBy(t *testing.T) {
	rows := rowsOf(t, `[
		{"a":"x","b":"p","c":"m","n":1},
		{"a":"x","b":"q","c":"n","n":2}
	]`)

	p, err := Aggregate(rows, Spec{GroupBy: "a", SeriesBy: "c"})
	require.NoError(t, err)
	assert.Equal(t, "c", p.SeriesKey)
	assert.Equal(t, []string{"m", "n"}, p.SeriesNames)
}

func TestAggregate_SingleSeriesCollapses(t *testing.T) {
	rows := rowsOf(t, `[
		{"branch":"NY","product":"loan","amount":5},
		{"branch":"NY","product":"card","amount":7}
	]`)

	p, err := Aggregate(rows, Spec{GroupBy: "branch", SingleSeries: true})
	require.NoError(t, err)
	assert.Empty(t, p.SeriesKey)
	assert.Equal(t, []string{DefaultSeries}, p.SeriesNames)
	assert.Equal(t, 12.0, p.Rows[0].Values[DefaultSeries])
}

func TestAggregate_NoGroupByMeansNoSplit(t *testing.T) {
	rows := rowsOf(t, `[{"x":"a","y":"b","n":1},{"x":"a","y":"c","n":2}]`)

	p, err := Aggregate(rows, Spec{})
	require.NoError(t, err)
	assert.Equal(t, "x", p.IndexKey)
	assert.Empty(t, p.SeriesKey)
	assert.Equal(t, 3.0, p.Rows[0].Values[DefaultSeries])
}

func TestAggregate_IndexFallbacks(t *testing.T) {
	rows := rowsOf(t, `[{"city":"Oslo","branch_name":"B1","total":4}]`)

	p, err := Aggregate(rows, Spec{GroupBy: "total"})
	require.NoError(t, err)
	assert.Equal(t, "branch_name", p.IndexKey, "numeric group-by falls back to the domain default")

	p, err = Aggregate(rows, Spec{GroupBy: "missing", IndexDefault: "nope"})
	require.NoError(t, err)
	assert.Equal(t, "city", p.IndexKey)
}

func TestAggregate_SynthesizedLabels(t *testing.T) {
	rows := rowsOf(t, `[{"id":1,"score":9},{"id":2,"score":4}]`)

	p, err := Aggregate(rows, Spec{ValueKey: "score"})
	require.NoError(t, err)
	assert.Equal(t, LabelColumn, p.IndexKey)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, "Item 1", p.Rows[0].Index)
	assert.Equal(t, "Item 2", p.Rows[1].Index)
	assert.Equal(t, 4.0, p.Rows[1].Values[DefaultSeries])
}

func TestAggregate_InvalidValueKeyFallsBackToFirstNumeric(t *testing.T) {
	rows := rowsOf(t, `[{"k":"a","first":1,"second":2}]`)

	p, err := Aggregate(rows, Spec{ValueKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "first", p.ValueKey)
}

func TestAggregate_NoNumericColumn(t *testing.T) {
	rows := rowsOf(t, `[{"name":"a"},{"name":"b"},{"name":"a"}]`)

	_, err := Aggregate(rows, Spec{Reducer: Sum})
	assert.ErrorIs(t, err, ErrNoValueColumn)

	p, err := Aggregate(rows, Spec{Reducer: Count})
	require.NoError(t, err)
	assert.Empty(t, p.ValueKey)
	assert.Equal(t, 2.0, p.Rows[0].Values[DefaultSeries])
	assert.Equal(t, 1.0, p.Rows[1].Values[DefaultSeries])
}

func TestAggregate_NonNumericValuesCountAsZero(t *testing.T) {
	rows := rowsOf(t, `[{"k":"a","v":5},{"k":"a","v":"n/a"},{"k":"a","v":null}]`)

	p, err := Aggregate(rows, Spec{Reducer: Avg})
	require.NoError(t, err)
	assert.InDelta(t, 5.0/3, p.Rows[0].Values[DefaultSeries], 1e-9)

	p, err = Aggregate(rows, Spec{Reducer: Min})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Rows[0].Values[DefaultSeries])
}

func TestAggregate_NullIndexUsesBlankLabel(t *testing.T) {
	rows := rowsOf(t, `[{"k":"a","v":1},{"k":null,"v":2}]`)

	p, err := Aggregate(rows, Spec{})
	require.NoError(t, err)
	assert.Equal(t, BlankLabel, p.Rows[1].Index)
}

func TestAggregate_Empty(t *testing.T) {
	p, err := Aggregate(nil, Spec{})
	require.NoError(t, err)
	assert.True(t, p.Empty())
	assert.NotNil(t, p.Rows)
	assert.NotNil(t, p.SeriesNames)
}

func TestAggregate_SumIsIdempotentOnAggregatedData(t *testing.T) {
	rows := rowsOf(t, `[
		{"branch":"NY","product":"loan","amount":5},
		{"branch":"NY","product":"card","amount":7},
		{"branch":"LA","product":"loan","amount":3}
	]`)
	first, err := Aggregate(rows, Spec{GroupBy: "branch"})
	require.NoError(t, err)

	single, err := Aggregate(rows, Spec{GroupBy: "branch", SingleSeries: true})
	require.NoError(t, err)
	again, err := Aggregate(single.Records(), Spec{GroupBy: single.IndexKey, Reducer: Sum})
	require.NoError(t, err)
	assert.Equal(t, single.Rows, again.Rows)
	assert.Len(t, first.SeriesNames, 2)
}

func TestParseReducer(t *testing.T) {
	r, err := ParseReducer(" AVG ")
	require.NoError(t, err)
	assert.Equal(t, Avg, r)

	r, err = ParseReducer("")
	require.NoError(t, err)
	assert.Equal(t, Sum, r)

	_, err = ParseReducer("median")
	assert.Error(t, err)
}

func keysOf(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
