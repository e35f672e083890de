package orm

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/pswap/errors"
)

// MarshalMessage serializes a protobuf message.
//
// Models implementing pswap.Marshaller must pass a view of themselves
// that has no Marshal method, otherwise gogo calls back into the model.
//
//   type swapMessage Swap
//   func (s *Swap) Marshal() ([]byte, error) {
//   	return orm.MarshalMessage((*swapMessage)(s))
//   }
func MarshalMessage(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	return raw, nil
}

// UnmarshalMessage loads a protobuf message serialized by MarshalMessage.
// The message is reset first. Unknown fields are skipped.
func UnmarshalMessage(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	return nil
}
