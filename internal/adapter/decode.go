package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/data-publish-agent/models"
)

var errMissingKey = errors.New("missing key field")

// decodePage parses a data-publish response body. The items array is read
// from collection.ItemsField; each item keeps its raw JSON. Items without a
// key of a collection with fallback key fields are skipped and counted in
// Page.Skipped.
func decodePage(collection models.Collection, body []byte) (models.Page, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.Page{}, fmt.Errorf("%w: decode page: %w", ErrFetch, err)
	}

	rawItems, ok := envelope[collection.ItemsField]
	if !ok || isNull(rawItems) {
		return models.Page{}, fmt.Errorf("%w: response has no %s", ErrFetch, collection.ItemsField)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return models.Page{}, fmt.Errorf("%w: decode %s: %w", ErrFetch, collection.ItemsField, err)
	}

	var page models.Page
	if raw, ok := envelope["moreUpdates"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &page.MoreUpdates); err != nil {
			return models.Page{}, fmt.Errorf("%w: decode moreUpdates: %w", ErrFetch, err)
		}
	}

	if !page.MoreUpdates {
		version, err := decodeVersion(envelope["finalVersion"])
		if err != nil {
			return models.Page{}, fmt.Errorf("%w: decode finalVersion: %w", ErrFetch, err)
		}
		page.FinalVersion = version
	}

	page.Items = make([]models.Entity, 0, len(items))
	for i, raw := range items {
		entity, err := decodeEntity(collection, raw)
		if errors.Is(err, errMissingKey) && len(collection.FallbackKeyFields) > 0 {
			page.Skipped++
			continue
		}
		if err != nil {
			return models.Page{}, fmt.Errorf("%w: item %d of %s: %w", ErrFetch, i, collection.Name, err)
		}
		page.Items = append(page.Items, entity)
	}

	return page, nil
}

func decodeEntity(collection models.Collection, raw json.RawMessage) (models.Entity, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Entity{}, err
	}

	key, err := entityKey(fields, collection.KeyFields)
	if errors.Is(err, errMissingKey) && len(collection.FallbackKeyFields) > 0 {
		key, err = entityKey(fields, collection.FallbackKeyFields)
	}
	if err != nil {
		return models.Entity{}, err
	}

	entity := models.Entity{
		Key: key,
		Raw: append(json.RawMessage(nil), raw...),
	}

	if value, ok := fields["deleted"]; ok && !isNull(value) {
		if err := json.Unmarshal(value, &entity.Deleted); err != nil {
			return models.Entity{}, fmt.Errorf("deleted: %w", err)
		}
	}

	if value, ok := fields["version"]; ok {
		version, err := decodeVersion(value)
		if err != nil {
			return models.Entity{}, fmt.Errorf("version: %w", err)
		}
		entity.Version = version
	}

	return entity, nil
}

// entityKey joins the values of names with "/".
func entityKey(fields map[string]json.RawMessage, names []string) (string, error) {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		value, ok := fields[name]
		if !ok || isNull(value) {
			return "", fmt.Errorf("%w %s", errMissingKey, name)
		}
		part, err := keyPart(value)
		if err != nil {
			return "", fmt.Errorf("key field %s: %w", name, err)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/"), nil
}

// keyPart renders a scalar JSON value as a key segment. Strings are
// unquoted, numbers keep their JSON text.
func keyPart(value json.RawMessage) (string, error) {
	value = bytes.TrimSpace(value)
	switch {
	case len(value) > 0 && value[0] == '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", err
		}
		return s, nil
	case len(value) > 0 && (value[0] == '-' || (value[0] >= '0' && value[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(value, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("unsupported key value %s", value)
	}
}

// decodeVersion accepts a JSON number or a numeric string. A missing or null
// value decodes to 0.
func decodeVersion(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || isNull(raw) {
		return 0, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		n = json.Number(strings.TrimSpace(s))
	}

	version, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, err
	}
	if version < 0 {
		return 0, fmt.Errorf("negative version %d", version)
	}
	return version, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
