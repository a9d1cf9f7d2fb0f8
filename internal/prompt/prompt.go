// Package prompt renders the role-specific debate instructions.
//
// Rendering is a pure function of the account's fields and the debate
// text produced so far. Every verdict prompt embeds the literal output
// contract the verdict parser searches for, with one example of each
// allowed value, because format compliance at the model level is
// probabilistic and must be reinforced in the instructions.
package prompt

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/alienxp03/botsleuth/internal/core"
)

// System instructions for the three debate roles.
const (
	SystemBotExpert   = "You are an expert in detecting automated bot accounts on social media."
	SystemHumanExpert = "You are an expert in recognizing genuine human behavior on social media."
	SystemJudge       = "You are an impartial judge who weighs competing analyses to provide clear classifications."
)

const botArgumentTemplate = `Analyze the following social media account data and identify reasons that suggest the account might be a bot.

**Account Details:**
{{.Details}}

**Provide your analysis with the following structure:**
1. Suspicious Patterns
2. Red Flags

**Example:**
1. Suspicious Patterns:
   - High retweet frequency suggests automation.
   - Lack of location information.
2. Red Flags:
   - Sudden spikes in follower count.

**Now, provide the arguments supporting the classification of this account as a bot.**`

const humanArgumentTemplate = `Analyze the following social media account data and identify reasons that suggest the account is operated by a genuine human.

**Account Details:**
{{.Details}}

**Provide your analysis with the following structure:**
1. Authentic Behavior Patterns
2. Indicators of Human Operation

**Example:**
1. Authentic Behavior Patterns:
   - Diverse tweet content indicates human creativity.
   - Engagement with followers through replies.
2. Indicators of Human Operation:
   - Verified status provides authenticity.
   - Consistent retweet patterns over time.

**Now, provide the arguments against the classification of this account as a bot.**`

const critiqueTemplate = `You previously argued that the following account {{.Position}}. The opposing analyst has made the argument quoted below. Examine it against the account data and identify its flaws, unsupported claims, and alternative explanations.

**Account Details:**
{{.Details}}

**Opposing Argument:**
{{.Opposing}}

**Provide your critique with the following structure:**
1. Flawed Assumptions
2. Alternative Explanations

**Now, provide your critique of the opposing argument.**`

const verdictTemplate = `Based on the following analysis, provide a final classification of the account as a bot or not. Consider the arguments for and against bot classification. Make the decision carefully and provide a clear explanation for your choice.
Think carefully about the arguments presented and the account details provided. Write down the reasons for your classification and treat them more like a thought process than a simple answer. Only then proceed to provide the final classification.

**Account Details:**
{{.Details}}

**Bot Arguments:**
{{.BotArgument}}

**Human Arguments:**
{{.HumanArgument}}
{{- if .BotCritique}}

**Bot Expert's Critique of the Human Arguments:**
{{.BotCritique}}

**Human Expert's Critique of the Bot Arguments:**
{{.HumanCritique}}
{{- end}}

**Provide your final classification with the following structure:**
- **Reason:** Detailed explanation based on the above arguments.
- **Classification:** Yes/No

**Example:**
- **Reason:** The account exhibits high retweet frequency and lacks location information, which are strong indicators of bot activity.
- **Classification:** Yes

**Example:**
- **Reason:** The account shows varied, conversational tweets and a complete profile, which indicate genuine human use.
- **Classification:** No

**Now, provide the final classification for this account.**`

var (
	botArgumentTmpl   = template.Must(template.New("bot_argument").Parse(botArgumentTemplate))
	humanArgumentTmpl = template.Must(template.New("human_argument").Parse(humanArgumentTemplate))
	critiqueTmpl      = template.Must(template.New("critique").Parse(critiqueTemplate))
	verdictTmpl       = template.Must(template.New("verdict").Parse(verdictTemplate))
)

// BotArgument renders the prompt instructing the bot expert to argue
// that the account is a bot.
func BotArgument(acc core.Account) (string, error) {
	return render(botArgumentTmpl, map[string]string{
		"Details": Details(acc),
	})
}

// HumanArgument renders the prompt instructing the human expert to
// argue that the account is operated by a genuine human.
func HumanArgument(acc core.Account) (string, error) {
	return render(humanArgumentTmpl, map[string]string{
		"Details": Details(acc),
	})
}

// BotCritique renders the prompt instructing the bot expert to find
// flaws in the human expert's argument, supplied verbatim.
func BotCritique(acc core.Account, opposingArgument string) (string, error) {
	return render(critiqueTmpl, map[string]string{
		"Position": "is an automated bot",
		"Details":  Details(acc),
		"Opposing": opposingArgument,
	})
}

// HumanCritique renders the prompt instructing the human expert to find
// flaws in the bot expert's argument, supplied verbatim.
func HumanCritique(acc core.Account, opposingArgument string) (string, error) {
	return render(critiqueTmpl, map[string]string{
		"Position": "is operated by a genuine human",
		"Details":  Details(acc),
		"Opposing": opposingArgument,
	})
}

// Verdict renders the judge prompt from all argument text collected so
// far. Critiques are included only when present on the transcript.
func Verdict(acc core.Account, tr *core.Transcript) (string, error) {
	if tr.BotArgument == "" || tr.HumanArgument == "" {
		return "", fmt.Errorf("verdict prompt requires both arguments")
	}
	if (tr.BotCritique == "") != (tr.HumanCritique == "") {
		return "", fmt.Errorf("verdict prompt requires both critiques or neither")
	}

	return render(verdictTmpl, map[string]string{
		"Details":       Details(acc),
		"BotArgument":   tr.BotArgument,
		"HumanArgument": tr.HumanArgument,
		"BotCritique":   tr.BotCritique,
		"HumanCritique": tr.HumanCritique,
	})
}

// Details formats the account's fields as a deterministic block of
// "Key: Value" lines. Keys are sorted so that repeated renders of the
// same account produce identical prompts.
func Details(acc core.Account) string {
	fields := acc.Fields()

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(fields[key])
	}
	return b.String()
}

func render(tmpl *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
