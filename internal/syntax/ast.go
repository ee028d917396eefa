package syntax

import "fmt"

// NodeType tags the variant a Node represents. A single struct shape
// carries every variant so the evaluator can dispatch on NodeType without
// a type switch over a family of interfaces.
type NodeType int

const (
	// NodeCurrent is both the bare `@` node and the identity placeholder
	// the parser synthesizes wherever a projection RHS is omitted.
	NodeCurrent NodeType = iota
	NodeField
	NodeIndex
	NodeSlice
	NodeFlatten
	NodeProjection       // Children[0] array-valued source, Children[1] RHS applied per element
	NodeObjectProjection // Children[0] object-valued source (a `*`), Children[1] RHS applied per value
	NodeFilterProjection // Children[0] source, Children[1] RHS, Children[2] filter predicate
	NodeSubexpression    // Children[0] . Children[1]
	NodePipe             // Children[0] | Children[1]
	NodeAnd
	NodeOr
	NodeNot
	NodeComparator // Value holds the comparator TokKind
	NodeMultiSelectList
	NodeMultiSelectHash // Value holds []HashPair
	NodeLiteral         // Value holds the raw JSON text, decoded at evaluation time
	NodeRawString       // Value holds the raw string payload
	NodeFunctionCall    // Value holds the function name, Children the arguments
	NodeExpressionRef   // Children[0] is the wrapped expression
)

// HashPair is one `key: expr` entry of a multi-select hash.
type HashPair struct {
	Key   string
	Value *Node
}

// Node is the single algebraic representation for every JMESPath AST
// variant. Which fields are meaningful depends on Type; see the NodeType
// constants for the per-variant contract.
type Node struct {
	Type     NodeType
	Name     string // NodeField identifier name
	Value    any    // NodeLiteral/NodeRawString payload, NodeComparator op, NodeFunctionCall name, NodeMultiSelectHash pairs
	Children []*Node
	Start    *int64 // NodeSlice bounds, nil means omitted
	Stop     *int64
	Step     *int64
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Node{%v %q children=%d}", n.Type, n.Name, len(n.Children))
}

func (t NodeType) String() string {
	switch t {
	case NodeCurrent:
		return "Current"
	case NodeField:
		return "Field"
	case NodeIndex:
		return "Index"
	case NodeSlice:
		return "Slice"
	case NodeFlatten:
		return "Flatten"
	case NodeProjection:
		return "Projection"
	case NodeObjectProjection:
		return "ObjectProjection"
	case NodeFilterProjection:
		return "FilterProjection"
	case NodeSubexpression:
		return "Subexpression"
	case NodePipe:
		return "Pipe"
	case NodeAnd:
		return "And"
	case NodeOr:
		return "Or"
	case NodeNot:
		return "Not"
	case NodeComparator:
		return "Comparator"
	case NodeMultiSelectList:
		return "MultiSelectList"
	case NodeMultiSelectHash:
		return "MultiSelectHash"
	case NodeLiteral:
		return "Literal"
	case NodeRawString:
		return "RawString"
	case NodeFunctionCall:
		return "FunctionCall"
	case NodeExpressionRef:
		return "ExpressionRef"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}
