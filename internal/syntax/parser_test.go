package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, expression string) *Node {
	t.Helper()
	node, err := NewParser().Parse(expression)
	require.NoError(t, err, "expression %q", expression)
	return node
}

func TestParseFieldAndSubexpression(t *testing.T) {
	node := parse(t, "foo.bar")
	require.Equal(t, NodeSubexpression, node.Type)
	assert.Equal(t, NodeField, node.Children[0].Type)
	assert.Equal(t, "foo", node.Children[0].Name)
	assert.Equal(t, "bar", node.Children[1].Name)
}

func TestParseIndexIsPlainSubexpression(t *testing.T) {
	node := parse(t, "foo[0]")
	require.Equal(t, NodeSubexpression, node.Type)
	assert.Equal(t, NodeIndex, node.Children[1].Type)
	assert.EqualValues(t, 0, node.Children[1].Value)
}

func TestParseSliceBecomesProjection(t *testing.T) {
	node := parse(t, "foo[0:2]")
	require.Equal(t, NodeProjection, node.Type, "a slice result always starts a projection")
	require.Equal(t, NodeSubexpression, node.Children[0].Type)
	assert.Equal(t, NodeSlice, node.Children[0].Children[1].Type)
	assert.Equal(t, NodeCurrent, node.Children[1].Type, "bare slice RHS defaults to identity")
}

func TestProjectionPropagatesThroughIndex(t *testing.T) {
	// `foo[*][0]` takes the 0th element of *each* item produced by the
	// wildcard: a bracket expression propagates into a projection's RHS
	// just like a dot subexpression does.
	node := parse(t, "foo[*][0]")
	require.Equal(t, NodeProjection, node.Type)
	require.Equal(t, NodeSubexpression, node.Children[1].Type)
	assert.Equal(t, NodeIndex, node.Children[1].Children[1].Type)
}

func TestComparatorStopsProjection(t *testing.T) {
	// A comparator's low binding power means it is never folded into a
	// projection's RHS; `foo[*]==bar` compares the whole projected array.
	node := parse(t, "foo[*]==bar")
	require.Equal(t, NodeComparator, node.Type)
	assert.Equal(t, NodeProjection, node.Children[0].Type)
	assert.Equal(t, NodeCurrent, node.Children[0].Children[1].Type)
}

func TestProjectionPropagatesThroughDot(t *testing.T) {
	node := parse(t, "foo[*].bar")
	require.Equal(t, NodeProjection, node.Type)
	assert.Equal(t, NodeField, node.Children[1].Type)
	assert.Equal(t, "bar", node.Children[1].Name)
}

func TestProjectionPropagatesThroughFurtherWildcard(t *testing.T) {
	node := parse(t, "foo[*].bar[*]")
	require.Equal(t, NodeProjection, node.Type)
	assert.Equal(t, NodeProjection, node.Children[1].Type, "a second wildcard should still be part of the RHS")
}

func TestPipeStopsProjection(t *testing.T) {
	node := parse(t, "foo[*]|[0]")
	require.Equal(t, NodePipe, node.Type)
	assert.Equal(t, NodeProjection, node.Children[0].Type)
	assert.Equal(t, NodeCurrent, node.Children[0].Children[1].Type)
}

func TestParseFlatten(t *testing.T) {
	node := parse(t, "foo[]")
	require.Equal(t, NodeProjection, node.Type)
	assert.Equal(t, NodeFlatten, node.Children[0].Type)
}

func TestParseFilterProjection(t *testing.T) {
	node := parse(t, "foo[?bar == `1`]")
	require.Equal(t, NodeFilterProjection, node.Type)
	assert.Equal(t, NodeComparator, node.Children[2].Type)
}

func TestParseMultiSelectListAndHash(t *testing.T) {
	list := parse(t, "[a, b]")
	require.Equal(t, NodeMultiSelectList, list.Type)
	require.Len(t, list.Children, 2)

	hash := parse(t, "{x: a, y: b}")
	require.Equal(t, NodeMultiSelectHash, hash.Type)
	pairs := hash.Value.([]HashPair)
	require.Len(t, pairs, 2)
	assert.Equal(t, "x", pairs[0].Key)
	assert.Equal(t, "y", pairs[1].Key)
}

func TestParseFunctionCall(t *testing.T) {
	node := parse(t, "length(@)")
	require.Equal(t, NodeFunctionCall, node.Type)
	assert.Equal(t, "length", node.Value)
	require.Len(t, node.Children, 1)
	assert.Equal(t, NodeCurrent, node.Children[0].Type)
}

func TestParseExpressionReference(t *testing.T) {
	node := parse(t, "sort_by(people, &age)")
	require.Equal(t, NodeFunctionCall, node.Type)
	require.Len(t, node.Children, 2)
	assert.Equal(t, NodeExpressionRef, node.Children[1].Type)
	assert.Equal(t, "age", node.Children[1].Children[0].Name)
}

func TestParseAndOrNot(t *testing.T) {
	node := parse(t, "!a && b || c")
	require.Equal(t, NodeOr, node.Type)
	require.Equal(t, NodeAnd, node.Children[0].Type)
	assert.Equal(t, NodeNot, node.Children[0].Children[0].Type)
}

func TestParseRawStringLiteral(t *testing.T) {
	node := parse(t, "'hello'")
	require.Equal(t, NodeRawString, node.Type)
	assert.Equal(t, "hello", node.Value)
}

func TestParseJSONLiteralKeepsRawTextForLazyDecode(t *testing.T) {
	node := parse(t, "`[1, 2, 3]`")
	require.Equal(t, NodeLiteral, node.Type)
	assert.Equal(t, "[1, 2, 3]", node.Value)
}

func TestParseQuotedIdentifierAsFunctionNameIsRejected(t *testing.T) {
	_, err := NewParser().Parse(`"length"(@)`)
	require.Error(t, err)
}

func TestParseIncompleteExpressionIsSyntaxError(t *testing.T) {
	_, err := NewParser().Parse("foo.")
	require.Error(t, err)
	var synErr SyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestParseTrailingTokenIsRejected(t *testing.T) {
	_, err := NewParser().Parse("foo bar")
	require.Error(t, err)
}
