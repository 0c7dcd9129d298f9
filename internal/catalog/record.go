package catalog

import (
	"encoding/json"

	"github.com/GTDGit/gtd_portal/pkg/digiflazz"
)

// Record is a raw provider record of a known kind. It is implemented only by
// PrepaidRecord and PostpaidRecord.
type Record interface {
	Kind() Kind
	BrandName() string
	isRecord()
}

// PrepaidRecord is a raw prepaid record as returned by the backend.
type PrepaidRecord digiflazz.PrepaidItem

// PostpaidRecord is a raw postpaid record as returned by the backend.
type PostpaidRecord digiflazz.PostpaidItem

func (PrepaidRecord) Kind() Kind           { return KindPrepaid }
func (r PrepaidRecord) BrandName() string  { return string(r.Brand) }
func (PrepaidRecord) isRecord()            {}
func (PostpaidRecord) Kind() Kind          { return KindPostpaid }
func (r PostpaidRecord) BrandName() string { return string(r.Brand) }
func (PostpaidRecord) isRecord()           {}

// DecodeRecords turns an envelope data field into typed records for kind.
// Missing or non-array data yields an empty, non-nil slice.
func DecodeRecords(kind Kind, data json.RawMessage) []Record {
	switch kind {
	case KindPostpaid:
		items := digiflazz.DecodePostpaidItems(data)
		out := make([]Record, 0, len(items))
		for _, it := range items {
			out = append(out, PostpaidRecord(it))
		}
		return out
	default:
		items := digiflazz.DecodePrepaidItems(data)
		out := make([]Record, 0, len(items))
		for _, it := range items {
			out = append(out, PrepaidRecord(it))
		}
		return out
	}
}
