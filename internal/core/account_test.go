package core

import (
	"testing"
	"time"
)

func TestAvgDailyRetweets(t *testing.T) {
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		retweetCount int
		createdAt    string
		want         float64
	}{
		{
			name:         "ten days active",
			retweetCount: 1000,
			createdAt:    "2024-06-10 12:00:00",
			want:         100.0,
		},
		{
			name:         "rounded to two decimals",
			retweetCount: 100,
			createdAt:    "2024-06-13 12:00:00", // 7 days
			want:         14.29,
		},
		{
			name:         "created today clamps to one day",
			retweetCount: 42,
			createdAt:    "2024-06-20 06:00:00",
			want:         42.0,
		},
		{
			name:         "zero retweets",
			retweetCount: 0,
			createdAt:    "2024-01-01 00:00:00",
			want:         0,
		},
		{
			name:         "unparseable timestamp",
			retweetCount: 500,
			createdAt:    "not a date",
			want:         0,
		},
		{
			name:         "empty timestamp",
			retweetCount: 500,
			createdAt:    "",
			want:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvgDailyRetweets(tt.retweetCount, tt.createdAt, now)
			if got != tt.want {
				t.Errorf("AvgDailyRetweets(%d, %q) = %v, want %v", tt.retweetCount, tt.createdAt, got, tt.want)
			}
		})
	}
}

func TestFlatAccountFields(t *testing.T) {
	acc := NewFlatAccount(42, "newsbot99", 5000, 1200, 30, 17, false, LabelBot,
		"", "2020-01-01 00:00:00", "crypto, giveaway ,, news")

	fields := acc.Fields()

	wantKeys := []string{
		"Username", "Account Creation", "Total Tweets", "Followers",
		"Retweets", "Mentions", "Verified", "Location", "Hashtags",
		"Average Daily Retweets",
	}
	for _, key := range wantKeys {
		if _, ok := fields[key]; !ok {
			t.Errorf("Fields() missing key %q", key)
		}
	}

	if fields["Username"] != "@newsbot99" {
		t.Errorf("Username = %q, want @newsbot99", fields["Username"])
	}
	if fields["Verified"] != "No" {
		t.Errorf("Verified = %q, want No", fields["Verified"])
	}
	if fields["Hashtags"] != "crypto, giveaway, news" {
		t.Errorf("Hashtags = %q, want trimmed comma-joined list", fields["Hashtags"])
	}

	if acc.TrueLabel() != LabelBot {
		t.Errorf("TrueLabel() = %v, want LabelBot", acc.TrueLabel())
	}
	if acc.Identifier() != "newsbot99" {
		t.Errorf("Identifier() = %q, want newsbot99", acc.Identifier())
	}
}

func TestNewRichAccount(t *testing.T) {
	t.Run("ValidInput", func(t *testing.T) {
		tweets := []string{"hello", "", "world", "", "again", "extra1", "extra2"}
		acc, err := NewRichAccount("Jane Doe", "janedoe", "just tweeting", "Berlin",
			"https://example.com", "March 2015", "150", "2300", tweets, "0")
		if err != nil {
			t.Fatalf("NewRichAccount returned error: %v", err)
		}

		if acc.Following != 150 || acc.Followers != 2300 {
			t.Errorf("counts = %d/%d, want 150/2300", acc.Following, acc.Followers)
		}
		if len(acc.Tweets) != 5 {
			t.Errorf("len(Tweets) = %d, want 5 (empties dropped, capped at 5)", len(acc.Tweets))
		}
		if acc.TrueLabel() != LabelHuman {
			t.Errorf("TrueLabel() = %v, want LabelHuman", acc.TrueLabel())
		}
		if acc.Identifier() != "janedoe" {
			t.Errorf("Identifier() = %q, want janedoe", acc.Identifier())
		}
	})

	t.Run("BotFlag", func(t *testing.T) {
		acc, err := NewRichAccount("Bot", "bot", "", "", "", "", "1", "1", nil, "1")
		if err != nil {
			t.Fatalf("NewRichAccount returned error: %v", err)
		}
		if acc.TrueLabel() != LabelBot {
			t.Errorf("TrueLabel() = %v, want LabelBot", acc.TrueLabel())
		}
	})

	t.Run("NonNumericFollowing", func(t *testing.T) {
		if _, err := NewRichAccount("x", "x", "", "", "", "", "many", "5", nil, "0"); err == nil {
			t.Error("expected error for non-numeric following count")
		}
	})

	t.Run("NonNumericBotFlag", func(t *testing.T) {
		if _, err := NewRichAccount("x", "x", "", "", "", "", "1", "5", nil, "maybe"); err == nil {
			t.Error("expected error for non-numeric bot flag")
		}
	})

	t.Run("FieldsCoverBothVariantsUniformly", func(t *testing.T) {
		acc, err := NewRichAccount("Jane", "jane", "bio", "Berlin", "", "March 2015", "1", "2",
			[]string{"a", "b"}, "0")
		if err != nil {
			t.Fatalf("NewRichAccount returned error: %v", err)
		}

		fields := acc.Fields()
		for _, key := range []string{"Username", "Handle", "Description", "Location", "Webpage", "Joined", "Following", "Followers", "Recent Tweets"} {
			if _, ok := fields[key]; !ok {
				t.Errorf("Fields() missing key %q", key)
			}
		}
		if fields["Recent Tweets"] != "a | b" {
			t.Errorf("Recent Tweets = %q, want joined tweet texts", fields["Recent Tweets"])
		}
	})
}
