// Package notion publishes a processed meeting (metadata + transcript)
// as a page in a Notion database. One-shot document construction; the
// page layout is a callout with the recording time, a transcript heading,
// and the transcript body split into paragraph blocks.
package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jomei/notionapi"
)

// blockChunkSize keeps each paragraph under Notion's 2000-character
// rich-text limit. The limit counts characters, so chunking is done in
// runes; splitting at byte offsets would cut multi-byte codepoints
// (any Hebrew transcript) in half at every block boundary.
const blockChunkSize = 1900

// transcriptExts is the preference order for locating a transcript file.
var transcriptExts = []string{".txt", ".vtt", ".srt"}

// Meta is the subset of metadata.json the upload needs.
type Meta struct {
	MeetingName string `json:"meeting_name"`
	StartedAt   string `json:"started_at"`
}

// Uploader creates Notion pages for processed meetings.
type Uploader struct {
	client     *notionapi.Client
	databaseID string
}

// NewUploader creates an uploader targeting the given database.
func NewUploader(apiKey, databaseID string) *Uploader {
	return &Uploader{
		client:     notionapi.NewClient(notionapi.Token(apiKey)),
		databaseID: databaseID,
	}
}

// Upload reads metadata.json and the transcript from dir, builds the page,
// and returns the created page URL.
func (u *Uploader) Upload(ctx context.Context, dir string) (string, error) {
	meta, transcript, err := ReadMeeting(dir)
	if err != nil {
		return "", err
	}

	name := meta.MeetingName
	if name == "" {
		name = "Untitled Meeting"
	}

	page, err := u.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(u.databaseID),
		},
		Properties: notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Title: richText(name),
			},
		},
		Children: BuildBlocks(meta, transcript),
	})
	if err != nil {
		return "", fmt.Errorf("create notion page: %w", err)
	}
	return page.URL, nil
}

// ReadMeeting loads metadata.json and the first transcript file
// (audio.txt, audio.vtt, or audio.srt) from dir.
func ReadMeeting(dir string) (*Meta, string, error) {
	metaData, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, "", fmt.Errorf("metadata.json: %w", err)
	}
	meta := &Meta{}
	if err := json.Unmarshal(metaData, meta); err != nil {
		return nil, "", fmt.Errorf("parse metadata.json: %w", err)
	}

	for _, ext := range transcriptExts {
		path := filepath.Join(dir, "audio"+ext)
		data, err := os.ReadFile(path)
		if err == nil {
			return meta, string(data), nil
		}
	}
	return nil, "", fmt.Errorf("no transcript file found in %s", dir)
}

// BuildBlocks assembles the page body: recording callout, transcript
// heading, then the transcript in paragraph chunks.
func BuildBlocks(meta *Meta, transcript string) []notionapi.Block {
	emoji := notionapi.Emoji("🎙️")
	blocks := []notionapi.Block{
		&notionapi.CalloutBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeCallout,
			},
			Callout: notionapi.Callout{
				RichText: richText("Recorded: " + meta.StartedAt),
				Icon:     &notionapi.Icon{Type: "emoji", Emoji: &emoji},
			},
		},
		&notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading2,
			},
			Heading2: notionapi.Heading{RichText: richText("Transcript")},
		},
	}

	for _, chunk := range Chunk(transcript, blockChunkSize) {
		blocks = append(blocks, &notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{RichText: richText(chunk)},
		})
	}
	return blocks
}

// Chunk splits s into pieces of at most size runes, never cutting a
// codepoint in half.
func Chunk(s string, size int) []string {
	var chunks []string
	runes := []rune(s)
	for len(runes) > size {
		chunks = append(chunks, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{Text: &notionapi.Text{Content: content}}}
}
