package symbolic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegateOp(t *testing.T) {
	expected := map[CompareOp]CompareOp{
		OpEQ: OpNEQ, OpNEQ: OpEQ,
		OpGT: OpLE, OpLE: OpGT,
		OpLT: OpGE, OpGE: OpLT,
	}
	for op, negated := range expected {
		assert.Equal(t, negated, NegateOp(op), op.String())
		assert.Equal(t, op, NegateOp(NegateOp(op)), op.String())
		assert.Equal(t, negated, op.Negate(), op.String())
	}
}

func TestNegateOpIsComplement(t *testing.T) {
	for op := OpEQ; op <= OpGE; op++ {
		for _, sign := range []int{-1, 0, 1} {
			assert.NotEqual(t, op.Holds(sign), NegateOp(op).Holds(sign), "%s with sign %d", op, sign)
		}
	}
}

func TestCompareOpHolds(t *testing.T) {
	assert.True(t, OpEQ.Holds(0))
	assert.False(t, OpEQ.Holds(1))
	assert.True(t, OpGT.Holds(1))
	assert.False(t, OpGT.Holds(0))
	assert.True(t, OpLE.Holds(0))
	assert.True(t, OpLT.Holds(-1))
	assert.True(t, OpGE.Holds(0))
	assert.Panics(t, func() { CompareOp(6).Holds(0) })
}

func TestParseCompareOp(t *testing.T) {
	for op := OpEQ; op <= OpGE; op++ {
		byName, err := ParseCompareOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, byName)

		bySymbol, err := ParseCompareOp(op.Symbol())
		require.NoError(t, err)
		assert.Equal(t, op, bySymbol)
	}
	_, err := ParseCompareOp("=<")
	assert.Error(t, err)

	assert.Equal(t, "?7", CompareOp(7).Symbol())
	assert.Equal(t, "CompareOp(7)", CompareOp(7).String())
}

func TestCompareOpJSON(t *testing.T) {
	var ops []CompareOp
	require.NoError(t, json.Unmarshal([]byte(`["GE", "!=", "<"]`), &ops))
	assert.Equal(t, []CompareOp{OpGE, OpNEQ, OpLT}, ops)

	b, err := json.Marshal(ops)
	require.NoError(t, err)
	assert.Equal(t, `["GE","NEQ","LT"]`, string(b))

	_, err = json.Marshal(CompareOp(-1))
	assert.Error(t, err)
}
