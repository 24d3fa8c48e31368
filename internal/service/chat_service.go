package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/dto"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/llm"
	"borrowed-brain-be/pkg/rag"
	"borrowed-brain-be/pkg/rag/citation"
	"borrowed-brain-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("chat session not found")

// chatHistoryWindow bounds how many prior messages are replayed to the model.
const chatHistoryWindow = 10

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	retriever   *rag.Retriever
	llmProvider llm.LLMProvider
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, retriever *rag.Retriever, llmProvider llm.LLMProvider) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		retriever:   retriever,
		llmProvider: llmProvider,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New Chat"
	}

	session := &entity.ChatSession{
		Id:     uuid.New(),
		UserId: userId,
		Title:  title,
		Scope: entity.SessionScope{
			PodcastIds: req.Scope.PodcastIds,
			EpisodeIds: req.Scope.EpisodeIds,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.GetAllSessionsResponse, len(sessions))
	for i, session := range sessions {
		res[i] = dto.GetAllSessionsResponse{
			Id:    session.Id,
			Title: session.Title,
			Scope: dto.SessionScopeDTO{
				PodcastIds: session.Scope.PodcastIds,
				EpisodeIds: session.Scope.EpisodeIds,
			},
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		}
	}
	return res, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageIds := make([]uuid.UUID, len(messages))
	for i, msg := range messages {
		messageIds[i] = msg.Id
	}
	citations, err := uow.ChatCitationRepository().FindByMessageIds(ctx, messageIds)
	if err != nil {
		return nil, err
	}
	citationsByMessage := make(map[uuid.UUID][]dto.CitationDTO)
	for _, c := range citations {
		citationsByMessage[c.ChatMessageId] = append(citationsByMessage[c.ChatMessageId], citationToDTO(c))
	}

	res := make([]dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		res[i] = dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Content,
			CreatedAt: msg.CreatedAt,
			Citations: citationsByMessage[msg.Id],
		}
	}
	return res, nil
}

func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	if err := s.chargeDailyUsage(ctx, uow, userId); err != nil {
		return nil, err
	}

	// The user's message is durable before any model work happens.
	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Content:       req.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	retrieved, err := s.retriever.Retrieve(ctx, userId, session.Scope, req.Chat)
	if err != nil {
		return nil, err
	}

	history, err := s.buildHistory(ctx, uow, session.Id, retrieved, req.Chat)
	if err != nil {
		return nil, err
	}

	reply, err := s.llmProvider.Chat(ctx, history, llm.WithTemperature(0.3))
	if err != nil {
		return nil, err
	}

	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Content:       reply,
		Role:          constant.ChatMessageRoleAssistant,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	citationRows := s.resolveCitations(assistantMessage.Id, reply, retrieved)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatCitationRepository().CreateBulk(ctx, citationRows); err != nil {
		return nil, err
	}
	if session.Title == "New Chat" {
		session.Title = deriveTitle(req.Chat)
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	citationDTOs := make([]dto.CitationDTO, len(citationRows))
	for i, c := range citationRows {
		citationDTOs[i] = dto.CitationDTO{
			EpisodeId:   c.EpisodeId,
			EpisodeName: episodeNameFor(c.EpisodeId, retrieved),
			StartTime:   c.StartTime,
			Excerpt:     c.Excerpt,
		}
	}

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Content,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        assistantMessage.Id,
			Chat:      assistantMessage.Content,
			Role:      assistantMessage.Role,
			CreatedAt: assistantMessage.CreatedAt,
			Citations: citationDTOs,
		},
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}
	return uow.ChatSessionRepository().Delete(ctx, session.Id)
}

func (s *chatService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// chargeDailyUsage resets the counter lazily on day rollover and then charges
// one reply with a single conditional increment, so concurrent requests never
// push past the limit.
func (s *chatService) chargeDailyUsage(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	now := time.Now()
	if !sameDay(user.ChatDailyUsageLastReset, now) {
		if err := uow.UserRepository().ResetChatUsage(ctx, userId); err != nil {
			return err
		}
		user.ChatDailyUsage = 0
	}

	ok, err := uow.UserRepository().IncrementChatUsageIfBelow(ctx, userId, constant.ChatDailyLimit)
	if err != nil {
		return err
	}
	if !ok {
		return &dto.LimitExceededError{
			Limit:      constant.ChatDailyLimit,
			Used:       constant.ChatDailyLimit,
			ResetAfter: startOfNextDay(now),
		}
	}
	return nil
}

func (s *chatService) buildHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, retrieved []*contract.ScoredTranscriptChunk, question string) ([]llm.Message, error) {
	prior, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: chatHistoryWindow, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	history := []llm.Message{
		{Role: "system", Content: prompt.BuildSystemPrompt(retrieved)},
	}
	// prior is newest-first; replay oldest-first. The just-persisted user
	// message is appended at the end, skip it here.
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].Content == question && prior[i].Role == constant.ChatMessageRoleUser && i == 0 {
			continue
		}
		history = append(history, llm.Message{
			Role:    prior[i].Role,
			Content: prior[i].Content,
		})
	}
	history = append(history, llm.Message{Role: "user", Content: question})
	return history, nil
}

// resolveCitations matches [Episode Name @ MM:SS] markers against the
// retrieved chunks. When the reply carries no parseable markers, all retrieved
// chunks are attached as candidate citations instead.
func (s *chatService) resolveCitations(messageId uuid.UUID, reply string, retrieved []*contract.ScoredTranscriptChunk) []*entity.ChatCitation {
	if len(retrieved) == 0 {
		return nil
	}

	var rows []*entity.ChatCitation
	for _, marker := range citation.Parse(reply) {
		chunk := bestChunkFor(marker, retrieved)
		if chunk == nil {
			continue
		}
		startTime := marker.Seconds
		rows = append(rows, &entity.ChatCitation{
			Id:            uuid.New(),
			ChatMessageId: messageId,
			EpisodeId:     chunk.EpisodeId,
			StartTime:     &startTime,
			Excerpt:       excerptOf(chunk.Document),
			CreatedAt:     time.Now(),
		})
	}
	if len(rows) > 0 {
		return rows
	}

	for _, scored := range retrieved {
		chunk := scored.Chunk
		rows = append(rows, &entity.ChatCitation{
			Id:            uuid.New(),
			ChatMessageId: messageId,
			EpisodeId:     chunk.EpisodeId,
			StartTime:     chunk.StartTime,
			Excerpt:       excerptOf(chunk.Document),
			CreatedAt:     time.Now(),
		})
	}
	return rows
}

// bestChunkFor picks the retrieved chunk whose episode name matches the
// marker, preferring the closest start timestamp.
func bestChunkFor(marker citation.Marker, retrieved []*contract.ScoredTranscriptChunk) *entity.TranscriptChunk {
	var best *entity.TranscriptChunk
	bestDelta := math.MaxFloat64
	for _, scored := range retrieved {
		chunk := scored.Chunk
		if !strings.EqualFold(chunk.EpisodeName, marker.EpisodeName) {
			continue
		}
		delta := math.MaxFloat64 / 2
		if chunk.StartTime != nil {
			delta = math.Abs(*chunk.StartTime - marker.Seconds)
		}
		if delta < bestDelta {
			bestDelta = delta
			best = chunk
		}
	}
	return best
}

// citationToDTO renders a stored citation; the episode name comes from the
// preloaded Episode row when the repository supplied one.
func citationToDTO(c *entity.ChatCitation) dto.CitationDTO {
	d := dto.CitationDTO{
		EpisodeId: c.EpisodeId,
		StartTime: c.StartTime,
		Excerpt:   c.Excerpt,
	}
	if c.Episode != nil {
		d.EpisodeName = c.Episode.Name
	}
	return d
}

func episodeNameFor(episodeId uuid.UUID, retrieved []*contract.ScoredTranscriptChunk) string {
	for _, scored := range retrieved {
		if scored.Chunk.EpisodeId == episodeId {
			return scored.Chunk.EpisodeName
		}
	}
	return ""
}

func excerptOf(document string) string {
	const maxLen = 200
	runes := []rune(document)
	if len(runes) <= maxLen {
		return document
	}
	return string(runes[:maxLen]) + "..."
}

func deriveTitle(question string) string {
	title := strings.TrimSpace(question)
	runes := []rune(title)
	if len(runes) > 60 {
		title = string(runes[:60]) + "..."
	}
	if title == "" {
		title = "New Chat"
	}
	return title
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfNextDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
