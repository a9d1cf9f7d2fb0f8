// Package dataset reads account datasets from CSV files.
//
// Two shapes are supported: the flat engagement dataset and the rich
// profile-plus-tweets dataset. Malformed rows are logged and skipped
// rather than aborting the read.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alienxp03/botsleuth/internal/core"
)

// Dataset formats.
const (
	FormatFlat = "flat"
	FormatRich = "rich"
)

// Read loads accounts from a CSV file in the given format. A limit
// greater than zero caps the number of accounts returned.
func Read(path, format string, limit int) ([]core.Account, error) {
	switch format {
	case FormatFlat:
		return ReadFlat(path, limit)
	case FormatRich:
		return ReadRich(path, limit)
	default:
		return nil, fmt.Errorf("unknown dataset format: %s", format)
	}
}

// flat dataset column names.
var flatColumns = []string{
	"User ID", "Username", "Tweet", "Retweet Count", "Mention Count",
	"Follower Count", "Verified", "Bot Label", "Location", "Created At",
	"Hashtags",
}

// ReadFlat loads the flat engagement dataset.
func ReadFlat(path string, limit int) ([]core.Account, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	cols, err := readHeader(reader, flatColumns)
	if err != nil {
		return nil, err
	}

	var accounts []core.Account
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping unreadable row", "row", row, "error", err)
			continue
		}

		acc, err := parseFlatRow(record, cols)
		if err != nil {
			slog.Warn("Skipping malformed row", "row", row, "error", err)
			continue
		}

		accounts = append(accounts, acc)
		if limit > 0 && len(accounts) >= limit {
			break
		}
	}

	slog.Info("Loaded dataset", "path", path, "format", FormatFlat, "accounts", len(accounts))
	return accounts, nil
}

func parseFlatRow(record []string, cols map[string]int) (core.Account, error) {
	get := func(name string) string {
		return record[cols[name]]
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(get("User ID")), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", get("User ID"), err)
	}

	counts := make(map[string]int, 4)
	for _, name := range []string{"Tweet", "Retweet Count", "Mention Count", "Follower Count"} {
		n, err := strconv.Atoi(strings.TrimSpace(get(name)))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(name), get(name), err)
		}
		counts[name] = n
	}

	botLabel, err := strconv.Atoi(strings.TrimSpace(get("Bot Label")))
	if err != nil {
		return nil, fmt.Errorf("invalid bot label %q: %w", get("Bot Label"), err)
	}
	label := core.LabelHuman
	if botLabel != 0 {
		label = core.LabelBot
	}

	verified := strings.EqualFold(strings.TrimSpace(get("Verified")), "true")

	return core.NewFlatAccount(
		userID,
		get("Username"),
		counts["Tweet"],
		counts["Retweet Count"],
		counts["Mention Count"],
		counts["Follower Count"],
		verified,
		label,
		get("Location"),
		get("Created At"),
		get("Hashtags"),
	), nil
}

// rich dataset column names.
var richColumns = []string{
	"username", "handle", "description", "location", "webpage", "joined",
	"following", "followers", "tweet1", "tweet2", "tweet3", "tweet4",
	"tweet5", "is_bot",
}

// ReadRich loads the profile-plus-tweets dataset.
func ReadRich(path string, limit int) ([]core.Account, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	cols, err := readHeader(reader, richColumns)
	if err != nil {
		return nil, err
	}

	var accounts []core.Account
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping unreadable row", "row", row, "error", err)
			continue
		}

		get := func(name string) string {
			return record[cols[name]]
		}

		tweets := []string{get("tweet1"), get("tweet2"), get("tweet3"), get("tweet4"), get("tweet5")}
		acc, err := core.NewRichAccount(
			get("username"),
			get("handle"),
			get("description"),
			get("location"),
			get("webpage"),
			get("joined"),
			get("following"),
			get("followers"),
			tweets,
			get("is_bot"),
		)
		if err != nil {
			slog.Warn("Skipping malformed row", "row", row, "error", err)
			continue
		}

		accounts = append(accounts, acc)
		if limit > 0 && len(accounts) >= limit {
			break
		}
	}

	slog.Info("Loaded dataset", "path", path, "format", FormatRich, "accounts", len(accounts))
	return accounts, nil
}

// readHeader reads the CSV header and maps required column names to
// their positions.
func readHeader(reader *csv.Reader, required []string) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}
