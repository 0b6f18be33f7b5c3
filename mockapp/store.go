package mockapp

import (
	"sort"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

type record struct {
	id       int
	parentID int
	fields   map[string]string
}

func (r record) asJSON(fieldNames []string) ldvalue.Value {
	b := ldvalue.ObjectBuild().Set("id", ldvalue.Int(r.id))
	if r.parentID != 0 {
		b.Set("parent_id", ldvalue.Int(r.parentID))
	}
	for _, name := range fieldNames {
		b.Set(name, ldvalue.String(r.fields[name]))
	}
	return b.Build()
}

// store holds the records of one resource kind. Ids are assigned from a counter and never
// reused, so a destroyed record stays missing.
type store struct {
	records map[int]record
	lastID  int
	lock    sync.RWMutex
}

func newStore() *store {
	return &store{records: make(map[int]record)}
}

func (s *store) insert(parentID int, fields map[string]string) record {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lastID++
	r := record{id: s.lastID, parentID: parentID, fields: fields}
	s.records[r.id] = r
	return r
}

func (s *store) get(parentID, id int) (record, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	r, ok := s.records[id]
	if !ok || r.parentID != parentID {
		return record{}, false
	}
	return r, true
}

func (s *store) update(r record) {
	s.lock.Lock()
	s.records[r.id] = r
	s.lock.Unlock()
}

func (s *store) remove(parentID, id int) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if r, ok := s.records[id]; !ok || r.parentID != parentID {
		return false
	}
	delete(s.records, id)
	return true
}

func (s *store) list(parentID int) []record {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var ret []record
	for _, r := range s.records {
		if r.parentID == parentID {
			ret = append(ret, r)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].id < ret[j].id })
	return ret
}

func (s *store) count() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.records)
}
