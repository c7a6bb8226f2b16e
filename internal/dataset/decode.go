// Package dataset decodes the catalogue JSON collections, fetches them from a
// configured source and keeps the live catalogue current.
package dataset

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"vacciprofile/pkg/domain"
)

// ErrMalformed is wrapped by every decoding failure.
var ErrMalformed = errors.New("dataset: malformed document")

func parseArray(bucket string, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: invalid json: %w", bucket, ErrMalformed)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return gjson.Result{}, fmt.Errorf("%s: top level must be an array: %w", bucket, ErrMalformed)
	}
	return doc, nil
}

// id reads a required identifier that may be encoded as a number or a string.
func id(bucket string, i int, obj gjson.Result, field string) (string, error) {
	v := obj.Get(field)
	switch v.Type {
	case gjson.String, gjson.Number:
		return v.String(), nil
	}
	return "", fmt.Errorf("%s[%d]: %s must be a string or number: %w", bucket, i, field, ErrMalformed)
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		out = append(out, e.String())
	}
	return out
}

// DecodeManufacturers parses the manufacturers collection. Information keys
// other than sources and lastUpdated keep their document order.
func DecodeManufacturers(data []byte) ([]domain.Manufacturer, error) {
	doc, err := parseArray(BucketManufacturers, data)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Manufacturer, 0, len(doc.Array()))
	for i, obj := range doc.Array() {
		mid, err := id(BucketManufacturers, i, obj, "manufacturerId")
		if err != nil {
			return nil, err
		}
		m := domain.Manufacturer{
			ManufacturerID: mid,
			Name:           obj.Get("name").String(),
			Description:    obj.Get("description").String(),
		}
		if info := obj.Get("information"); info.IsObject() {
			m.Information = decodeInformation(info)
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeInformation(obj gjson.Result) *domain.Information {
	info := &domain.Information{Attributes: []domain.Attribute{}, Sources: []domain.Source{}}
	obj.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "sources":
			for _, s := range value.Array() {
				info.Sources = append(info.Sources, domain.Source{
					Title:       s.Get("title").String(),
					Link:        s.Get("link").String(),
					LastUpdated: s.Get("lastUpdated").String(),
				})
			}
		case "lastUpdated":
			info.LastUpdated = value.String()
		default:
			info.Attributes = append(info.Attributes, domain.Attribute{Key: key.String(), Value: value.String()})
		}
		return true
	})
	return info
}

// DecodeViruses parses the viruses collection.
func DecodeViruses(data []byte) ([]domain.Virus, error) {
	doc, err := parseArray(BucketViruses, data)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Virus, 0, len(doc.Array()))
	for i, obj := range doc.Array() {
		vid, err := id(BucketViruses, i, obj, "virusId")
		if err != nil {
			return nil, err
		}
		v := domain.Virus{
			VirusID:     vid,
			Name:        obj.Get("name").String(),
			Description: obj.Get("description").String(),
		}
		for j, ref := range obj.Get("vaccines").Array() {
			rid, err := id(BucketViruses, i, ref, "vaccineId")
			if err != nil {
				return nil, fmt.Errorf("vaccines[%d]: %w", j, err)
			}
			v.Vaccines = append(v.Vaccines, domain.VaccineRef{VaccineID: rid, Name: ref.Get("name").String()})
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeVaccines parses the vaccines collection.
func DecodeVaccines(data []byte) ([]domain.Vaccine, error) {
	doc, err := parseArray(BucketVaccines, data)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Vaccine, 0, len(doc.Array()))
	for i, obj := range doc.Array() {
		var ids [3]string
		for k, field := range []string{"vaccineId", "virusId", "manufacturerId"} {
			if ids[k], err = id(BucketVaccines, i, obj, field); err != nil {
				return nil, err
			}
		}
		out = append(out, domain.Vaccine{
			VaccineID:      ids[0],
			VirusID:        ids[1],
			ManufacturerID: ids[2],
			Name:           obj.Get("name").String(),
			Description:    obj.Get("description").String(),
			Link:           obj.Get("link").String(),
			LastUpdated:    obj.Get("lastUpdated").String(),
			Countries:      stringList(obj.Get("countries")),
			Recommendation: obj.Get("recommendation").String(),
			Accreditation:  stringList(obj.Get("accreditation")),
			VaccineType:    obj.Get("vaccineType").String(),
			Comments:       obj.Get("comments").String(),
			Revenue:        obj.Get("revenue").String(),
		})
	}
	return out, nil
}

// DecodeScientificNames parses the emphasis vocabulary, a flat array of
// strings. Blank entries are dropped.
func DecodeScientificNames(data []byte) ([]string, error) {
	doc, err := parseArray(BucketScientificNames, data)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(doc.Array()))
	for i, v := range doc.Array() {
		if v.Type != gjson.String {
			return nil, fmt.Errorf("%s[%d]: expected string: %w", BucketScientificNames, i, ErrMalformed)
		}
		if v.Str != "" {
			out = append(out, v.Str)
		}
	}
	return out, nil
}
