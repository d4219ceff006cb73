package tui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/agrochat/internal/chat"
	"github.com/longkey1/agrochat/internal/upload"
)

// Recommender answers chat messages.
type Recommender interface {
	Recommend(ctx context.Context, message, imageURL string) (string, error)
}

// Uploader stores an image and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type replyMsg struct {
	id   string
	text string
	err  error
}

type uploadDoneMsg struct {
	job upload.Job
	url string
	err error
}

func recommendCmd(ctx context.Context, r Recommender, req chat.Request, imageURL string) tea.Cmd {
	return func() tea.Msg {
		text, err := r.Recommend(ctx, req.Text, imageURL)
		return replyMsg{id: req.ID, text: text, err: err}
	}
}

func uploadCmd(ctx context.Context, u Uploader, job upload.Job) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(job.Path)
		if err != nil {
			return uploadDoneMsg{job: job, err: err}
		}
		defer f.Close()

		url, err := u.Upload(ctx, job.Name, f)
		return uploadDoneMsg{job: job, url: url, err: err}
	}
}
