package orm

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/pswap/errors"
)

// counter is a minimal model used to exercise the orm in tests.
type counter struct {
	Owner []byte `protobuf:"bytes,1,opt,name=owner,proto3"`
	Count int64  `protobuf:"varint,2,opt,name=count,proto3"`
}

var _ Model = (*counter)(nil)

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative count")
	}
	return nil
}

func (c *counter) Marshal() ([]byte, error) {
	return MarshalMessage((*counterMessage)(c))
}

func (c *counter) Unmarshal(raw []byte) error {
	return UnmarshalMessage(raw, (*counterMessage)(c))
}

type counterMessage counter

func (m *counterMessage) Reset()         { *m = counterMessage{} }
func (m *counterMessage) String() string { return proto.CompactTextString(m) }
func (*counterMessage) ProtoMessage()    {}

func ownerIndexer(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidType, obj.Value())
	}
	return c.Owner, nil
}

func newCounterBucket() Bucket {
	return NewBucket("counters", NewSimpleObj(nil, &counter{})).
		WithIndex("owner", ownerIndexer, false)
}
