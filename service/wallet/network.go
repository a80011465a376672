package wallet

import "fmt"

// Currency describes the native currency of a network as presented in
// wallet_addEthereumChain requests.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// NetworkTarget is the immutable definition of the one network this client
// operates against. Fixed for the process lifetime.
type NetworkTarget struct {
	ChainID     uint64
	Name        string
	Currency    Currency
	RPCURLs     []string
	ExplorerURL string
}

// ChainIDHex renders the chain id the way provider calls expect it.
func (n NetworkTarget) ChainIDHex() string {
	return fmt.Sprintf("0x%x", n.ChainID)
}

// addChainParams is the wallet_addEthereumChain descriptor (EIP-3085).
type addChainParams struct {
	ChainID           string   `json:"chainId"`
	ChainName         string   `json:"chainName"`
	NativeCurrency    Currency `json:"nativeCurrency"`
	RPCURLs           []string `json:"rpcUrls"`
	BlockExplorerURLs []string `json:"blockExplorerUrls"`
}

func (n NetworkTarget) addChainDescriptor() addChainParams {
	return addChainParams{
		ChainID:           n.ChainIDHex(),
		ChainName:         n.Name,
		NativeCurrency:    n.Currency,
		RPCURLs:           n.RPCURLs,
		BlockExplorerURLs: []string{n.ExplorerURL},
	}
}
