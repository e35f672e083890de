package orm

import (
	"reflect"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
)

// SimpleObj binds a model to the key it is stored under. A SimpleObj with
// an empty model is the template a bucket parses stored records into.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj returns an object storing value under key.
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Value() pswap.Persistent {
	return o.value
}

func (o SimpleObj) Key() []byte {
	return o.key
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Validate requires a key and a valid model.
func (o SimpleObj) Validate() error {
	if len(o.key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if o.value == nil {
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns an object holding an empty model of the same type and a
// copy of the key. Model content is never copied because Unmarshal resets
// the model before loading into it.
func (o *SimpleObj) Clone() Object {
	empty := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) > 0 {
		key = append(key, o.key...)
	}
	return &SimpleObj{key: key, value: empty}
}
