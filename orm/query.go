package orm

import (
	"github.com/iov-one/curio"
)

// queryPrefix loads all models with the given key prefix
func queryPrefix(db curio.ReadOnlyKVStore, prefix []byte) ([]curio.Model, error) {
	itr, err := db.Iterator(prefix, prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr curio.Iterator) ([]curio.Model, error) {
	defer itr.Close()

	var res []curio.Model
	for itr.Valid() {
		res = append(res, curio.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		})
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prefixRange returns the smallest key strictly above all keys
// with this prefix, or nil if the prefix is all 0xff
func prefixRange(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
