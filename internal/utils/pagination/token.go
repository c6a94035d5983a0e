package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeSequenceToken creates a base64 encoded token from a date and a journal
// sequence number. Journals paginate on this pair, so the cursor stays stable
// even when many journals share one date.
func EncodeSequenceToken(date time.Time, sequence int64) string {
	tokenStr := fmt.Sprintf("%s|%d", date.Format(timeFormat), sequence)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeSequenceToken parses the base64 encoded token back into its date and
// sequence number.
func DecodeSequenceToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	tokenStr := string(decodedBytes)
	parts := strings.SplitN(tokenStr, "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	sequence, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}

	return date, sequence, nil
}

// EncodeLedgerToken creates a base64 encoded token from a date, a journal
// sequence number and a ledger entry number. One journal may post several
// rows against the same account, so the unique entry number is needed to
// make the cursor a total order over ledger rows.
func EncodeLedgerToken(date time.Time, sequence int64, entryNo int64) string {
	tokenStr := fmt.Sprintf("%s|%d|%d", date.Format(timeFormat), sequence, entryNo)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeLedgerToken parses the base64 encoded token back into its date,
// sequence number and entry number.
func DecodeLedgerToken(token string) (time.Time, int64, int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return time.Time{}, 0, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	sequence, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}

	entryNo, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid pagination token format (entry parse): %w", err)
	}

	return date, sequence, entryNo, nil
}

// EncodeDateBasedToken creates a token for single date field pagination
func EncodeDateBasedToken(date time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(date.Format(timeFormat)))
}

// DecodeDateBasedToken decodes a token for single date field pagination
func DecodeDateBasedToken(token string) (time.Time, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	date, err := time.Parse(timeFormat, string(decodedBytes))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	return date, nil
}
