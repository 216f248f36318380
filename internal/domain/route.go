package domain

// SwapPath is one hop of a conversion route.
type SwapPath struct {
	Provider string `json:"provider"`
	PoolID   string `json:"pool_id"`
	Target   string `json:"target"` // package::module::function of the pool swap entry
	From     string `json:"from"`
	To       string `json:"to"`
}

// SwapRoute is the aggregator's answer to a find-route request. A route may
// carry an explicit error or an insufficient-liquidity flag instead of usable
// paths; classifying those is the swap router's job, not the transport's.
type SwapRoute struct {
	AmountIn              uint64
	AmountOut             uint64
	Paths                 []SwapPath
	InsufficientLiquidity bool
	Error                 *RouterError
}
