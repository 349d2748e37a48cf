package vm

import (
	"github.com/dharitri/dvm-go/model/dharitri"
)

// TxLog is one event emitted during execution. Logs are appended to the
// enclosing result in emission order and never mutated afterwards.
type TxLog struct {
	Address  dharitri.Address
	Endpoint []byte
	Topics   [][]byte
	Data     []byte
}
