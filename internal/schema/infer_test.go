package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datachat-resultview/internal/model"
)

func TestInfer_AnswerArray(t *testing.T) {
	res := Infer([]byte(`{"answer": [{"branch_name":"NY","deposits":100},{"branch_name":"LA","deposits":200}]}`))

	require.Len(t, res.Rows, 2)
	require.Len(t, res.Columns, 2)
	assert.Equal(t, model.Column{Key: "branch_name", Label: "Branch Name", Kind: model.KindText}, res.Columns[0])
	assert.Equal(t, model.Column{Key: "deposits", Label: "Deposits", Kind: model.KindNumeric}, res.Columns[1])
	assert.True(t, res.HasNumericData)
	assert.Empty(t, res.PlainText)
	assert.Equal(t, "LA", res.Rows[1].Values["branch_name"])
	assert.Equal(t, 200.0, res.Rows[1].Values["deposits"])
}

func TestInfer_SingleObjectAnswer(t *testing.T) {
	res := Infer([]byte(`{"answer": {"message":"no results"}}`))

	require.Len(t, res.Rows, 1)
	require.Len(t, res.Columns, 1)
	assert.Equal(t, "Message", res.Columns[0].Label)
	assert.Equal(t, "no results", res.Rows[0].Values["message"])
	assert.False(t, res.HasNumericData)
}

func TestInfer_EmptyAndMalformed(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		plainText string
	}{
		{"empty array", `[]`, ""},
		{"empty answer", `{"answer": []}`, ""},
		{"null answer", `{"answer": null}`, ""},
		{"blank", `   `, ""},
		{"malformed", `{"answer": [`, `{"answer": [`},
		{"prose", `The total is 42.`, `The total is 42.`},
		{"json string", `"hello there"`, "hello there"},
		{"trailing garbage", `{"a":1} extra`, `{"a":1} extra`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Infer([]byte(tt.payload))
			assert.NotNil(t, res.Rows)
			assert.NotNil(t, res.Columns)
			assert.Empty(t, res.Rows)
			assert.Empty(t, res.Columns)
			assert.False(t, res.HasNumericData)
			assert.Equal(t, tt.plainText, res.PlainText)
		})
	}
}

func TestInfer_KeepsKeyOrder(t *testing.T) {
	res := Infer([]byte(`[{"zeta":1,"alpha":"a","mid":true}]`))

	require.Len(t, res.Columns, 3)
	assert.Equal(t, "zeta", res.Columns[0].Key)
	assert.Equal(t, "alpha", res.Columns[1].Key)
	assert.Equal(t, "mid", res.Columns[2].Key)
	assert.Equal(t, model.KindText, res.Columns[2].Kind, "booleans are not numeric")
}

func TestInfer_ScalarRowsWrappedInValueColumn(t *testing.T) {
	res := Infer([]byte(`{"answer": [3, "7", "x"]}`))

	require.Len(t, res.Rows, 3)
	require.Len(t, res.Columns, 1)
	assert.Equal(t, model.ValueColumn, res.Columns[0].Key)
	assert.Equal(t, model.KindNumeric, res.Columns[0].Kind)
	assert.Equal(t, "x", res.Rows[2].Values[model.ValueColumn])
	assert.True(t, res.HasNumericData)
}

func TestInfer_EncodedStringPayload(t *testing.T) {
	res := Infer([]byte(`"{\"answer\":[{\"city\":\"Oslo\",\"n\":\"12\"}]}"`))

	require.Len(t, res.Rows, 1)
	assert.Equal(t, model.KindNumeric, res.Columns[1].Kind)
	assert.True(t, res.HasNumericData)
}

func TestInfer_NestedValuesFlattened(t *testing.T) {
	res := Infer([]byte(`[{"name":"a","tags":{"x":1,"a":[1,2]}}]`))

	require.Len(t, res.Rows, 1)
	assert.Equal(t, `{"x":1,"a":[1,2]}`, res.Rows[0].Values["tags"])
}

func TestInfer_KindFromFirstRowOnly(t *testing.T) {
	res := Infer([]byte(`[{"code":"n/a"},{"code":"5"}]`))

	require.Len(t, res.Columns, 1)
	assert.Equal(t, model.KindText, res.Columns[0].Kind)
	assert.True(t, res.HasNumericData, "numeric-ness scans every row")
}

func TestInfer_NoRowsMeansNoNumericData(t *testing.T) {
	payloads := []string{`[]`, `{"answer":[]}`, `oops`, `null`, `42`}
	for _, p := range payloads {
		res := Infer([]byte(p))
		if len(res.Rows) == 0 {
			assert.False(t, res.HasNumericData, p)
		}
	}
}
