package song

import (
	"errors"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// Song is a schemaless song document. Only the application-level "id" field
// is interpreted; every other field is passed through untouched.
type Song = bson.M

// IDField is the document key holding the application-level identifier. It is
// distinct from the store-internal "_id".
const IDField = "id"

var (
	ErrMissingID = errors.New("missing 'id' in request data")
	ErrInvalidID = errors.New("invalid song ID format")
)

// ID is the canonical string form of an application-level song id.
type ID string

// ParseID accepts any non-empty path segment.
func ParseID(s string) (ID, error) {
	if s == "" {
		return "", ErrInvalidID
	}
	return ID(s), nil
}

// ParseIntID accepts only path segments that parse as a base-10 int64.
// The result is canonicalised, so "007" becomes "7".
func ParseIntID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", ErrInvalidID
	}
	return ID(strconv.FormatInt(n, 10)), nil
}

// IDFromValue derives the canonical id from a decoded document field.
// Strings and integral numbers are accepted.
func IDFromValue(v interface{}) (ID, error) {
	switch t := v.(type) {
	case string:
		return ParseID(t)
	case int32:
		return ID(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return ID(strconv.FormatInt(t, 10)), nil
	case int:
		return ID(strconv.Itoa(t)), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || t >= math.MaxInt64 || t < math.MinInt64 {
			return "", ErrInvalidID
		}
		return ID(strconv.FormatInt(int64(t), 10)), nil
	}
	return "", ErrInvalidID
}

// IDOf returns the canonical id of s.
func IDOf(s Song) (ID, error) {
	v, ok := s[IDField]
	if !ok {
		return "", ErrMissingID
	}
	return IDFromValue(v)
}

// Int reports the numeric value of id when it is an int64.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Candidates lists every stored value that identifies this song: the string
// itself and, for numeric ids, the integer.
func (id ID) Candidates() bson.A {
	out := bson.A{string(id)}
	if n, ok := id.Int(); ok {
		out = append(out, n)
	}
	return out
}

// Filter selects documents whose "id" field matches id.
func (id ID) Filter() bson.M {
	return bson.M{IDField: bson.M{"$in": id.Candidates()}}
}

// Matches reports whether a stored "id" value identifies this song.
func (id ID) Matches(v interface{}) bool {
	if s, ok := v.(string); ok {
		return s == string(id)
	}
	n, ok := id.Int()
	if !ok {
		return false
	}
	switch t := v.(type) {
	case int32:
		return int64(t) == n
	case int64:
		return t == n
	case int:
		return int64(t) == n
	case float64:
		return t == float64(n)
	}
	return false
}

func (id ID) String() string { return string(id) }
