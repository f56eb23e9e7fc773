package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"sentgen/internal/config"
	"sentgen/internal/model"
	"sentgen/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type SentenceServer struct {
	server    *mcp.Server
	sentences *service.SentenceService
	config    *config.Config
	logger    *zap.Logger
	handler   *mcp.StreamableHTTPHandler
}

type GenerateParams struct {
	Corpus         string   `json:"corpus" jsonschema:"the name of the corpus to imitate"`
	SeedWord       string   `json:"seed_word,omitempty" jsonschema:"first word of the sentence, requires seed_tag"`
	SeedTag        string   `json:"seed_tag,omitempty" jsonschema:"part-of-speech tag of the seed word, e.g. VB"`
	Threshold      *float64 `json:"threshold,omitempty" jsonschema:"minimum fraction of skeleton positions that must match, 0 to 1"`
	SkeletonLength int      `json:"skeleton_length,omitempty" jsonschema:"maximum number of tags in the sentence skeleton"`
	RandomSeed     *uint64  `json:"random_seed,omitempty" jsonschema:"seed for reproducible output"`
}

type ReflectParams struct {
	Sentence string `json:"sentence" jsonschema:"the sentence to reflect"`
}

type ListCorporaParams struct{}

func NewSentenceServer(sentences *service.SentenceService, cfg *config.Config, logger *zap.Logger) *SentenceServer {
	server := &SentenceServer{
		sentences: sentences,
		config:    cfg,
		logger:    logger,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "SentenceGenerator",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "generateSentence",
		Description: "Generate a new sentence in the style of a loaded corpus. Returns the sentence, its part-of-speech skeleton and how well the words matched it",
	}, server.handleGenerate)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "reflect",
		Description: "Swap first and second person in a sentence and find its first base-form verb",
	}, server.handleReflect)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "listCorpora",
		Description: "List the corpora sentences can be generated from",
	}, server.handleListCorpora)

	server.handler = mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	server.server = mcpServer
	return server
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func (s *SentenceServer) handleGenerate(ctx context.Context, req *mcp.CallToolRequest, args GenerateParams) (*mcp.CallToolResult, any, error) {
	s.logger.Info("Handling generateSentence request", zap.String("corpus", args.Corpus))

	resp, err := s.sentences.Generate(ctx, &model.GenerateRequest{
		Corpus:         args.Corpus,
		SeedWord:       args.SeedWord,
		SeedTag:        args.SeedTag,
		Threshold:      args.Threshold,
		SkeletonLength: args.SkeletonLength,
		RandomSeed:     args.RandomSeed,
	})
	if err != nil {
		s.logger.Error("Failed to generate sentence", zap.String("corpus", args.Corpus), zap.Error(err))
		return textResult(fmt.Sprintf("Failed to generate sentence: %v", err)), nil, nil
	}

	return textResult(formatSentence(resp)), nil, nil
}

func (s *SentenceServer) handleReflect(ctx context.Context, req *mcp.CallToolRequest, args ReflectParams) (*mcp.CallToolResult, any, error) {
	resp, err := s.sentences.Reflect(ctx, &model.ReflectRequest{Sentence: args.Sentence})
	if err != nil {
		return textResult(fmt.Sprintf("Failed to reflect sentence: %v", err)), nil, nil
	}
	return textResult(fmt.Sprintf("Reflection: %s\nVerb: %s", resp.Reflection, resp.Verb)), nil, nil
}

func (s *SentenceServer) handleListCorpora(ctx context.Context, req *mcp.CallToolRequest, args ListCorporaParams) (*mcp.CallToolResult, any, error) {
	names := s.sentences.Corpora().List()
	if len(names) == 0 {
		return textResult("No corpora loaded."), nil, nil
	}

	var result strings.Builder
	for _, name := range names {
		stats, err := s.sentences.Corpora().GetStats(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&result, "%s (%s): %d tokens, %d sentences, %d distinct words\n",
			name, stats.Language, stats.Index.CorpusTokens, stats.Sentences, stats.Vocabulary)
	}
	return textResult(result.String()), nil, nil
}

func formatSentence(resp *model.GenerateResponse) string {
	var result strings.Builder
	result.WriteString(resp.Text)
	result.WriteString("\n\n")
	fmt.Fprintf(&result, "Skeleton: %s\n", strings.Join(resp.Skeleton, " "))
	fmt.Fprintf(&result, "Score: %.2f after %d attempt(s)\n", resp.Score, resp.Attempts)
	if !resp.Novel {
		result.WriteString("Note: this sentence also appears in the corpus\n")
	}
	return result.String()
}

// Handler returns the streamable HTTP handler serving the MCP tools
func (s *SentenceServer) Handler() http.Handler {
	return s.handler
}

func (s *SentenceServer) SetupHTTPRoutes(router *gin.Engine) {
	go func() {
		address := s.config.Mcp.GetAddress()
		s.logger.Info("MCP Server going to listen", zap.String("address", address))
		if err := http.ListenAndServe(address, s.handler); err != nil {
			s.logger.Fatal("MCP Server failed", zap.Error(err))
		}
	}()
}
