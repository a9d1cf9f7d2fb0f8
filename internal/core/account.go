package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Account is the capability surface shared by both record variants.
// The prompt renderer treats accounts polymorphically through Fields
// rather than by concrete type.
type Account interface {
	// Identifier returns the account's display handle for logs.
	Identifier() string

	// TrueLabel returns the ground-truth label from the dataset.
	// It is used only for evaluation, never fed into prompts.
	TrueLabel() Label

	// Fields returns all attributes as a uniform key-value mapping.
	Fields() map[string]string
}

// createdAtLayout is the timestamp format used by the flat dataset.
const createdAtLayout = "2006-01-02 15:04:05"

// maxRichTweets caps the number of recent tweets carried by a rich account.
const maxRichTweets = 5

// FlatAccount is the flat record variant: numeric engagement attributes
// plus a derived average daily retweet rate. Immutable after construction.
type FlatAccount struct {
	UserID           int64
	Username         string
	TweetCount       int
	RetweetCount     int
	MentionCount     int
	FollowerCount    int
	Verified         bool
	Location         string
	CreatedAt        string
	Hashtags         []string
	BotLabel         Label
	AvgDailyRetweets float64
}

// NewFlatAccount builds a flat account and computes the derived
// average daily retweet rate once at construction.
func NewFlatAccount(userID int64, username string, tweetCount, retweetCount, mentionCount, followerCount int, verified bool, botLabel Label, location, createdAt, hashtags string) *FlatAccount {
	var tags []string
	for _, tag := range strings.Split(hashtags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return &FlatAccount{
		UserID:           userID,
		Username:         username,
		TweetCount:       tweetCount,
		RetweetCount:     retweetCount,
		MentionCount:     mentionCount,
		FollowerCount:    followerCount,
		Verified:         verified,
		Location:         location,
		CreatedAt:        createdAt,
		Hashtags:         tags,
		BotLabel:         botLabel,
		AvgDailyRetweets: AvgDailyRetweets(retweetCount, createdAt, time.Now()),
	}
}

// AvgDailyRetweets computes retweetCount / max(days since creation, 1),
// rounded to 2 decimals. Returns 0 when the creation timestamp cannot
// be parsed.
func AvgDailyRetweets(retweetCount int, createdAt string, now time.Time) float64 {
	created, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return 0
	}

	days := int(now.Sub(created).Hours() / 24)
	if days < 1 {
		days = 1
	}

	avg := float64(retweetCount) / float64(days)
	return math.Round(avg*100) / 100
}

// Identifier returns the account's username.
func (a *FlatAccount) Identifier() string {
	return a.Username
}

// TrueLabel returns the ground-truth label.
func (a *FlatAccount) TrueLabel() Label {
	return a.BotLabel
}

// Fields returns the account attributes keyed by their prompt labels.
func (a *FlatAccount) Fields() map[string]string {
	verified := "No"
	if a.Verified {
		verified = "Yes"
	}

	return map[string]string{
		"Username":               "@" + a.Username,
		"Account Creation":       a.CreatedAt,
		"Total Tweets":           strconv.Itoa(a.TweetCount),
		"Followers":              strconv.Itoa(a.FollowerCount),
		"Retweets":               strconv.Itoa(a.RetweetCount),
		"Mentions":               strconv.Itoa(a.MentionCount),
		"Verified":               verified,
		"Location":               a.Location,
		"Hashtags":               strings.Join(a.Hashtags, ", "),
		"Average Daily Retweets": fmt.Sprintf("%.2f", a.AvgDailyRetweets),
	}
}

// RichAccount is the profile-plus-tweets record variant.
type RichAccount struct {
	Username    string
	Handle      string
	Description string
	Location    string
	Webpage     string
	Joined      string
	Following   int
	Followers   int
	Tweets      []string
	BotLabel    Label
}

// NewRichAccount builds a rich account from raw dataset values. The
// follower/following counts and bot flag must be numeric; empty tweet
// entries are dropped and at most five are kept.
func NewRichAccount(username, handle, description, location, webpage, joined, following, followers string, tweets []string, isBot string) (*RichAccount, error) {
	followingCount, err := strconv.Atoi(strings.TrimSpace(following))
	if err != nil {
		return nil, fmt.Errorf("invalid following count %q: %w", following, err)
	}

	followerCount, err := strconv.Atoi(strings.TrimSpace(followers))
	if err != nil {
		return nil, fmt.Errorf("invalid follower count %q: %w", followers, err)
	}

	botFlag, err := strconv.Atoi(strings.TrimSpace(isBot))
	if err != nil {
		return nil, fmt.Errorf("invalid bot flag %q: %w", isBot, err)
	}
	label := LabelHuman
	if botFlag != 0 {
		label = LabelBot
	}

	kept := make([]string, 0, maxRichTweets)
	for _, t := range tweets {
		if t == "" {
			continue
		}
		kept = append(kept, t)
		if len(kept) == maxRichTweets {
			break
		}
	}

	return &RichAccount{
		Username:    username,
		Handle:      handle,
		Description: description,
		Location:    location,
		Webpage:     webpage,
		Joined:      joined,
		Following:   followingCount,
		Followers:   followerCount,
		Tweets:      kept,
		BotLabel:    label,
	}, nil
}

// Identifier returns the account's handle.
func (a *RichAccount) Identifier() string {
	return a.Handle
}

// TrueLabel returns the ground-truth label.
func (a *RichAccount) TrueLabel() Label {
	return a.BotLabel
}

// Fields returns the account attributes keyed by their prompt labels.
func (a *RichAccount) Fields() map[string]string {
	return map[string]string{
		"Username":      a.Username,
		"Handle":        "@" + a.Handle,
		"Description":   a.Description,
		"Location":      a.Location,
		"Webpage":       a.Webpage,
		"Joined":        a.Joined,
		"Following":     strconv.Itoa(a.Following),
		"Followers":     strconv.Itoa(a.Followers),
		"Recent Tweets": strings.Join(a.Tweets, " | "),
	}
}
