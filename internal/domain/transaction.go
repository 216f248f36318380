package domain

// Argument kinds. An argument identifies a value consumed by a command:
// the implicit gas coin, an owned object, an inline pure value, or the
// result of an earlier command in the same transaction.
const (
	ArgGasCoin = "gas_coin"
	ArgObject  = "object"
	ArgPure    = "pure"
	ArgResult  = "result"
)

// Command kinds.
const (
	CmdSplitCoins = "split_coins"
	CmdMergeCoins = "merge_coins"
	CmdMoveCall   = "move_call"
)

type Argument struct {
	Kind     string `json:"kind"`
	ObjectID string `json:"object_id,omitempty"`
	Pure     string `json:"pure,omitempty"`
	Result   int    `json:"result,omitempty"`
}

type Command struct {
	Kind          string     `json:"kind"`
	Coin          *Argument  `json:"coin,omitempty"`    // split source / merge destination
	Amounts       []uint64   `json:"amounts,omitempty"` // split amounts
	Sources       []Argument `json:"sources,omitempty"` // merge sources
	Target        string     `json:"target,omitempty"`  // package::module::function
	TypeArguments []string   `json:"type_arguments,omitempty"`
	Arguments     []Argument `json:"arguments,omitempty"`
}

// Transaction is an ordered command list ready for signing by the wallet
// collaborator. Building one performs no chain writes.
type Transaction struct {
	Sender    string    `json:"sender"`
	GasBudget uint64    `json:"gas_budget"`
	Commands  []Command `json:"commands"`
}

func NewTransaction(sender string, gasBudget uint64) *Transaction {
	return &Transaction{Sender: sender, GasBudget: gasBudget}
}

// GasCoinArg references the transaction's implicit gas coin pool.
func GasCoinArg() Argument {
	return Argument{Kind: ArgGasCoin}
}

// ObjectArg references an owned or shared object by id.
func ObjectArg(objectID string) Argument {
	return Argument{Kind: ArgObject, ObjectID: objectID}
}

// PureArg embeds an inline string value.
func PureArg(value string) Argument {
	return Argument{Kind: ArgPure, Pure: value}
}

// SplitCoins appends a split command and returns the argument referencing the
// first split-off coin.
func (t *Transaction) SplitCoins(coin Argument, amounts []uint64) Argument {
	t.Commands = append(t.Commands, Command{
		Kind:    CmdSplitCoins,
		Coin:    &coin,
		Amounts: amounts,
	})
	return Argument{Kind: ArgResult, Result: len(t.Commands) - 1}
}

// MergeCoins appends a merge command consuming sources into destination.
func (t *Transaction) MergeCoins(destination Argument, sources []Argument) {
	t.Commands = append(t.Commands, Command{
		Kind:    CmdMergeCoins,
		Coin:    &destination,
		Sources: sources,
	})
}

// MoveCall appends a contract call and returns the argument referencing its
// result.
func (t *Transaction) MoveCall(target string, typeArguments []string, arguments []Argument) Argument {
	t.Commands = append(t.Commands, Command{
		Kind:          CmdMoveCall,
		Target:        target,
		TypeArguments: typeArguments,
		Arguments:     arguments,
	})
	return Argument{Kind: ArgResult, Result: len(t.Commands) - 1}
}
