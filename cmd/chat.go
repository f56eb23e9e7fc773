package main

import (
	"context"
	"fmt"
	"strings"

	"sentgen/internal/model"
	"sentgen/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

const chatHistory = 10

type chatLine struct {
	speaker string
	text    string
}

type replyMsg struct {
	resp *model.ChatResponse
	err  error
}

type chatModel struct {
	sentences *service.SentenceService
	corpus    string
	input     string
	history   []chatLine
	waiting   bool
}

// RunChat opens a terminal chat against one loaded corpus
func RunChat(sentences *service.SentenceService, corpus string) error {
	if _, err := sentences.Corpora().Get(corpus); err != nil {
		return err
	}

	p := tea.NewProgram(chatModel{
		sentences: sentences,
		corpus:    corpus,
	})
	_, err := p.Run()
	return err
}

func (m chatModel) Init() tea.Cmd {
	return nil
}

func (m chatModel) ask(message string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.sentences.Chat(context.Background(), &model.ChatRequest{
			Corpus:  m.corpus,
			Message: message,
		})
		return replyMsg{resp: resp, err: err}
	}
}

func (m chatModel) addLine(speaker, text string) chatModel {
	m.history = append(m.history, chatLine{speaker: speaker, text: text})
	if len(m.history) > chatHistory {
		m.history = m.history[len(m.history)-chatHistory:]
	}
	return m
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {

	case tea.KeyMsg:
		switch v.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			text := strings.TrimSpace(m.input)
			m.input = ""
			if text == "" || m.waiting {
				return m, nil
			}
			m = m.addLine("you", text)
			m.waiting = true
			return m, m.ask(text)

		case tea.KeyBackspace:
			if len(m.input) > 0 {
				runes := []rune(m.input)
				m.input = string(runes[:len(runes)-1])
			}
			return m, nil

		case tea.KeySpace:
			m.input += " "
			return m, nil

		case tea.KeyRunes:
			m.input += string(v.Runes)
			return m, nil
		}

	case replyMsg:
		m.waiting = false
		if v.err != nil {
			m = m.addLine("error", v.err.Error())
		} else {
			m = m.addLine(m.corpus, v.resp.Reply)
		}
		return m, nil
	}

	return m, nil
}

func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Chatting with corpus %q (esc to quit)\n", m.corpus))
	b.WriteString(strings.Repeat("─", 50) + "\n")

	if len(m.history) == 0 {
		b.WriteString("   (say something)\n")
	}
	for _, line := range m.history {
		b.WriteString(fmt.Sprintf("%s: %s\n", line.speaker, line.text))
	}
	b.WriteString(strings.Repeat("─", 50) + "\n")

	if m.waiting {
		b.WriteString("...\n")
	}
	b.WriteString("> " + m.input + "_\n")
	return b.String()
}
