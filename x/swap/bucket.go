package swap

import (
	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/orm"
)

const (
	// BucketName is where swap records are stored.
	BucketName = "swap"

	// IndexAssetEscrower is the name of the index of swaps by the asset
	// escrower address.
	IndexAssetEscrower = "asset_escrower"
	// IndexPremiumEscrower is the name of the index of swaps by the
	// premium escrower address.
	IndexPremiumEscrower = "premium_escrower"
)

// SwapBucket is the registry of swap records, one per commitment key. It is
// not safe for concurrent use, the Engine serializes access.
type SwapBucket struct {
	orm.Bucket
}

// NewSwapBucket returns a bucket storing swaps by their commitment key.
func NewSwapBucket() SwapBucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Swap{})).
		WithIndex(IndexAssetEscrower, idxAssetEscrower, false).
		WithIndex(IndexPremiumEscrower, idxPremiumEscrower, false)
	return SwapBucket{Bucket: b}
}

// Insert stores a new swap. ErrAlreadySetUp is returned if a swap with the
// same commitment key exists.
func (b SwapBucket) Insert(db pswap.KVStore, s *Swap) error {
	ok, err := b.Bucket.Has(db, s.Key())
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(ErrAlreadySetUp, "commitment key %X", s.Key())
	}
	return b.save(db, s)
}

// Get returns the swap with given commitment key or ErrNotFound.
func (b SwapBucket) Get(db pswap.ReadOnlyKVStore, key []byte) (*Swap, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "swap %X", key)
	}
	return asSwap(obj)
}

// Update replaces an existing swap. ErrNotFound is returned if there is
// nothing to replace.
func (b SwapBucket) Update(db pswap.KVStore, s *Swap) error {
	ok, err := b.Bucket.Has(db, s.Key())
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "swap %X", s.Key())
	}
	return b.save(db, s)
}

// Remove deletes the swap with given commitment key. Removing a swap that
// does not exist is an ErrNotFound error.
func (b SwapBucket) Remove(db pswap.KVStore, key []byte) error {
	ok, err := b.Bucket.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "swap %X", key)
	}
	return b.Bucket.Delete(db, key)
}

// ByParty returns all swaps indexed under given address by the named index.
func (b SwapBucket) ByParty(db pswap.ReadOnlyKVStore, index string, addr pswap.Address) ([]*Swap, error) {
	objs, err := b.Bucket.GetIndexed(db, index, addr)
	if err != nil {
		return nil, err
	}
	swaps := make([]*Swap, 0, len(objs))
	for _, obj := range objs {
		s, err := asSwap(obj)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, s)
	}
	return swaps, nil
}

func (b SwapBucket) save(db pswap.KVStore, s *Swap) error {
	obj := orm.NewSimpleObj(s.Key(), s)
	if err := b.Bucket.Save(db, obj); err != nil {
		return errors.Wrap(err, "save swap")
	}
	return nil
}

func asSwap(obj orm.Object) (*Swap, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	s, ok := obj.Value().(*Swap)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidType, obj.Value())
	}
	return s, nil
}

func idxAssetEscrower(obj orm.Object) ([]byte, error) {
	s, err := asSwap(obj)
	if err != nil {
		return nil, err
	}
	return s.Agreement.AssetEscrower, nil
}

func idxPremiumEscrower(obj orm.Object) ([]byte, error) {
	s, err := asSwap(obj)
	if err != nil {
		return nil, err
	}
	return s.Agreement.PremiumEscrower, nil
}
