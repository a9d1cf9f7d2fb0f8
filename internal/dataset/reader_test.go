package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienxp03/botsleuth/internal/core"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const flatCSV = `User ID,Username,Tweet,Retweet Count,Mention Count,Follower Count,Verified,Bot Label,Location,Created At,Hashtags
1,alice,120,40,12,350,True,0,Berlin,2019-05-01 10:30:00,"travel,food"
2,spambot,9000,4500,2,3,False,1,,2023-11-11 00:00:00,"crypto,giveaway"
3,broken,not-a-number,1,1,1,False,0,,2020-01-01 00:00:00,
4,bob,80,10,5,120,false,0,Paris,2018-02-02 08:00:00,
`

func TestReadFlat(t *testing.T) {
	path := writeCSV(t, flatCSV)

	accounts, err := ReadFlat(path, 0)
	require.NoError(t, err)

	// Row 3 has a non-numeric tweet count and is skipped.
	require.Len(t, accounts, 3)

	first, ok := accounts[0].(*core.FlatAccount)
	require.True(t, ok)
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, 120, first.TweetCount)
	assert.Equal(t, 40, first.RetweetCount)
	assert.True(t, first.Verified)
	assert.Equal(t, core.LabelHuman, first.TrueLabel())
	assert.Equal(t, []string{"travel", "food"}, first.Hashtags)

	second := accounts[1].(*core.FlatAccount)
	assert.Equal(t, core.LabelBot, second.TrueLabel())
	assert.False(t, second.Verified)
}

func TestReadFlatLimit(t *testing.T) {
	path := writeCSV(t, flatCSV)

	accounts, err := ReadFlat(path, 2)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestReadFlatMissingColumns(t *testing.T) {
	path := writeCSV(t, "Username,Tweet\nalice,5\n")

	_, err := ReadFlat(path, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestReadFlatMissingFile(t *testing.T) {
	_, err := ReadFlat(filepath.Join(t.TempDir(), "nope.csv"), 0)
	assert.Error(t, err)
}

const richCSV = `username,handle,description,location,webpage,joined,following,followers,tweet1,tweet2,tweet3,tweet4,tweet5,is_bot
Jane Doe,janedoe,"loves, commas and quotes",Berlin,https://jane.example,March 2015,150,2300,hello,,world,,,0
Promo Bot,promobot,,,,"June 2023",2,9,BUY NOW,BUY NOW,BUY NOW,BUY NOW,BUY NOW,1
Bad Row,badrow,,,,2020,many,5,,,,,,0
`

func TestReadRich(t *testing.T) {
	path := writeCSV(t, richCSV)

	accounts, err := ReadRich(path, 0)
	require.NoError(t, err)

	// The row with a non-numeric following count is skipped.
	require.Len(t, accounts, 2)

	jane, ok := accounts[0].(*core.RichAccount)
	require.True(t, ok)
	assert.Equal(t, "janedoe", jane.Handle)
	assert.Equal(t, "loves, commas and quotes", jane.Description)
	assert.Equal(t, 150, jane.Following)
	assert.Equal(t, []string{"hello", "world"}, jane.Tweets, "empty tweet cells are dropped")
	assert.Equal(t, core.LabelHuman, jane.TrueLabel())

	bot := accounts[1].(*core.RichAccount)
	assert.Equal(t, core.LabelBot, bot.TrueLabel())
	assert.Len(t, bot.Tweets, 5)
}

func TestRead(t *testing.T) {
	t.Run("FlatFormat", func(t *testing.T) {
		accounts, err := Read(writeCSV(t, flatCSV), FormatFlat, 1)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)
	})

	t.Run("RichFormat", func(t *testing.T) {
		accounts, err := Read(writeCSV(t, richCSV), FormatRich, 0)
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := Read(writeCSV(t, flatCSV), "xml", 0)
		assert.Error(t, err)
	})
}
