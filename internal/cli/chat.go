package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"computerx_chatbot/internal/conversation"
	"computerx_chatbot/pkg"
)

const (
	teachPrompt    = "Teach me: what should I answer? (leave blank to skip)"
	historyCommand = "/history"
)

var (
	userColor    = color.New(color.FgGreen, color.Bold)
	normalColor  = color.New(color.FgCyan)
	annoyedColor = color.New(color.FgRed)
	learnColor   = color.New(color.FgYellow)
)

func moodColor(mood pkg.Mood) *color.Color {
	switch mood {
	case pkg.MoodAnnoyed:
		return annoyedColor
	case pkg.MoodLearning:
		return learnColor
	default:
		return normalColor
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation on the console. Say "bye" to leave and
"/history" to print the recent transcript.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := opts.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			c := &console{
				in:      bufio.NewScanner(cmd.InOrStdin()),
				out:     cmd.OutOrStdout(),
				botName: app.Config.Bot.Name,
			}
			return c.run(cmd, app.Conversations)
		},
	}
}

type console struct {
	in      *bufio.Scanner
	out     io.Writer
	botName string
}

func (c *console) say(mood pkg.Mood, msg string) {
	moodColor(mood).Fprintf(c.out, "%s: ", c.botName)
	fmt.Fprintln(c.out, msg)
}

func (c *console) prompt() (string, bool) {
	userColor.Fprint(c.out, "You: ")
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *console) run(cmd *cobra.Command, svc *conversation.Service) error {
	ctx := cmd.Context()

	id, greeting, err := svc.Start(ctx)
	if err != nil {
		return err
	}
	defer svc.End(ctx, id)
	c.say(pkg.MoodNormal, greeting)

	for {
		text, ok := c.prompt()
		if !ok {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}

		if strings.TrimSpace(text) == historyCommand {
			history, err := svc.History(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(c.out, conversation.FormatTranscript(history, c.botName))
			continue
		}

		resp, err := svc.Respond(ctx, id, text)
		if err != nil {
			return err
		}
		c.say(resp.Mood, resp.Message)

		if resp.EndConversation {
			return nil
		}
		if resp.Mood == pkg.MoodLearning {
			if err := c.teach(cmd, svc, id); err != nil {
				return err
			}
		}
	}
}

// teach asks for the answer to the question the bot just failed on
func (c *console) teach(cmd *cobra.Command, svc *conversation.Service, id string) error {
	ctx := cmd.Context()

	learnColor.Fprintln(c.out, teachPrompt)
	answer, ok := c.prompt()
	if ok && strings.TrimSpace(answer) != "" {
		err := svc.Learn(ctx, id, "", answer)
		if err == nil {
			c.say(pkg.MoodNormal, conversation.LearnedMessage)
			return nil
		}
		if !errors.Is(err, conversation.ErrBlankAnswer) && !errors.Is(err, conversation.ErrNotLearning) {
			return err
		}
	}

	msg, err := svc.Decline(ctx, id)
	if err != nil {
		return err
	}
	c.say(pkg.MoodNormal, msg)
	return nil
}
