package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/mention"
	"github.com/shouni/gemini-studio-kit/pkg/prompt"
	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type imageRequest struct {
	Image string `json:"image" binding:"required"`
}

type createSeedRequest struct {
	Image string   `json:"image" binding:"required"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
}

// updateSeedRequest の各フィールドは指定されたものだけを適用します。
type updateSeedRequest struct {
	Name   *string `json:"name"`
	Pinned *bool   `json:"pinned"`
}

type textRequest struct {
	Text string `json:"text"`
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Seed   *int64 `json:"seed"`
}

type completeRequest struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

type insertRequest struct {
	Text  string        `json:"text"`
	Query mention.Query `json:"query"`
	Tag   string        `json:"tag" binding:"required"`
}

type chatRequest struct {
	Message string   `json:"message"`
	Images  []string `json:"images"`
	Modes   []string `json:"modes"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

// optionsResponse はUIの選択肢一覧です。
type optionsResponse struct {
	Modes        []domain.Mode `json:"modes"`
	StylePresets []string      `json:"style_presets"`
	CameraAngles []string      `json:"camera_angles"`
	Poses        []string      `json:"poses"`
	AspectRatios []string      `json:"aspect_ratios"`
	ImageSizes   []string      `json:"image_sizes"`
}

func (s *Server) health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) state(c *gin.Context) {
	respond(c, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) setMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		failBadRequest(c, err)
		return
	}
	if err := s.studio.SetMode(mode); err != nil {
		failBadRequest(c, err)
		return
	}
	respond(c, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) options(c *gin.Context) {
	respond(c, http.StatusOK, optionsResponse{
		Modes:        domain.Modes(),
		StylePresets: prompt.PresetNames(),
		CameraAngles: prompt.CameraAngles,
		Poses:        prompt.Poses,
		AspectRatios: append([]string{domain.AspectRatioOriginal}, prompt.SupportedAspectRatios...),
		ImageSizes:   prompt.ImageSizes,
	})
}

// updateSettings は現在の設定に本文を重ねます。省略したフィールドは変わりません。
func (s *Server) updateSettings(c *gin.Context) {
	req := s.studio.Snapshot().Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	respond(c, http.StatusOK, s.studio.UpdateSettings(req))
}

func (s *Server) setNegativePrompt(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	s.studio.SetNegativePrompt(req.Text)
	respond(c, http.StatusOK, gin.H{"text": req.Text})
}

func (s *Server) setSlot(c *gin.Context) {
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	if err := s.studio.SetSlot(index, req.Image); err != nil {
		failFor(c, err)
		return
	}
	respond(c, http.StatusOK, s.studio.Snapshot().Slots)
}

func (s *Server) clearSlot(c *gin.Context) {
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	if err := s.studio.ClearSlot(index); err != nil {
		failFor(c, err)
		return
	}
	respond(c, http.StatusOK, s.studio.Snapshot().Slots)
}

func slotIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		failBadRequest(c, fmt.Errorf("スロット番号が不正です: %q", c.Param("index")))
		return 0, false
	}
	return index, true
}

func (s *Server) createSeed(c *gin.Context) {
	var req createSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	seed, err := s.studio.CreateSeed(c.Request.Context(), req.Image, req.Name, req.Tags)
	if err != nil {
		failFor(c, err)
		return
	}
	respond(c, http.StatusCreated, seed)
}

func (s *Server) updateSeed(c *gin.Context) {
	id := c.Param("id")
	var req updateSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	if req.Name != nil {
		if _, err := s.studio.RenameSeed(c.Request.Context(), id, *req.Name); err != nil {
			failFor(c, err)
			return
		}
	}
	if req.Pinned != nil {
		target := ""
		if *req.Pinned {
			target = id
		}
		if err := s.studio.PinSeed(target); err != nil {
			failFor(c, err)
			return
		}
	}
	respond(c, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) removeSeed(c *gin.Context) {
	if err := s.studio.RemoveSeed(c.Request.Context(), c.Param("id")); err != nil {
		failFor(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) commit(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	pushed := s.studio.Commit(req.Prompt)
	respond(c, http.StatusOK, gin.H{"pushed": pushed, "history": s.studio.Snapshot().History})
}

func (s *Server) undo(c *gin.Context) {
	st, ok := s.studio.Undo()
	respond(c, http.StatusOK, gin.H{"applied": ok, "state": st, "history": s.studio.Snapshot().History})
}

func (s *Server) redo(c *gin.Context) {
	st, ok := s.studio.Redo()
	respond(c, http.StatusOK, gin.H{"applied": ok, "state": st, "history": s.studio.Snapshot().History})
}

func (s *Server) completeMention(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	q, candidates, active := s.studio.CompleteMention(req.Text, req.Caret)
	if candidates == nil {
		candidates = []mention.Candidate{}
	}
	respond(c, http.StatusOK, gin.H{"active": active, "query": q, "candidates": candidates})
}

func (s *Server) insertMention(c *gin.Context) {
	var req insertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	text, caret := s.studio.InsertMention(req.Text, req.Query, req.Tag)
	respond(c, http.StatusOK, gin.H{"text": text, "caret": caret})
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	res, err := s.studio.Submit(c.Request.Context(), studio.SubmitRequest{Prompt: req.Prompt, Seed: req.Seed})
	if err != nil {
		failFor(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) rewrite(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	out, err := s.studio.Rewrite(c.Request.Context(), req.Prompt)
	if err != nil {
		failFor(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"prompt": out})
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	modes := make([]domain.IntelligenceMode, 0, len(req.Modes))
	for _, m := range req.Modes {
		mode, err := domain.ParseIntelligenceMode(m)
		if err != nil {
			failBadRequest(c, err)
			return
		}
		modes = append(modes, mode)
	}
	res, err := s.studio.Chat(c.Request.Context(), studio.ChatInput{
		Message: req.Message,
		Images:  req.Images,
		Modes:   modes,
	})
	if err != nil {
		failFor(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) resetChat(c *gin.Context) {
	s.studio.ResetChat()
	c.Status(http.StatusNoContent)
}

func (s *Server) setFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err)
		return
	}
	fb, err := domain.ParseFeedback(req.Feedback)
	if err != nil {
		failBadRequest(c, err)
		return
	}
	item, err := s.studio.SetFeedback(c.Request.Context(), c.Param("id"), fb)
	if err != nil {
		failFor(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}
