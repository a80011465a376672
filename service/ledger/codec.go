package ledger

import (
	"math/big"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// jarABIJSON is the consumed surface of the DonationJar contract.
const jarABIJSON = `[
  {"type":"function","name":"getMyDonates","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"donator","type":"address"},{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"},{"name":"message","type":"string"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"getReceivedDonations","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"donator","type":"address"},{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"},{"name":"message","type":"string"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"totalDonated","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getRank","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"addDonate","stateMutability":"payable","inputs":[{"name":"recipient","type":"address"},{"name":"message","type":"string"}],"outputs":[]}
]`

var jarABI = mustParseABI(jarABIJSON)

func mustParseABI(src string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return parsed
}

// donationTuple mirrors the contract's Donation struct on the wire.
type donationTuple struct {
	Donator   common.Address
	Recipient common.Address
	Amount    *big.Int
	Message   string
	Timestamp *big.Int
}

func packCall(method string, args ...any) ([]byte, error) {
	data, err := jarABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	return data, nil
}

func unpackDonations(method string, data []byte) ([]Donation, error) {
	out, err := jarABI.Unpack(method, data)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	raw := *abi.ConvertType(out[0], new([]donationTuple)).(*[]donationTuple)

	donations := make([]Donation, len(raw))
	for i, t := range raw {
		donations[i] = Donation{
			Donator:   t.Donator,
			Recipient: t.Recipient,
			Amount:    t.Amount,
			Message:   t.Message,
			Timestamp: time.Unix(t.Timestamp.Int64(), 0).UTC(),
		}
	}
	return donations, nil
}

func unpackBigInt(method string, data []byte) (*big.Int, error) {
	out, err := jarABI.Unpack(method, data)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func unpackUint8(method string, data []byte) (uint8, error) {
	out, err := jarABI.Unpack(method, data)
	if err != nil {
		return 0, errors.Wrapf(err, "unpack %s", method)
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}
