package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/orchestrator"
	"github.com/abhisek/tutorly/internal/video"
)

type workflowRequest struct {
	Context learner.Context `json:"context"`
	Params  json.RawMessage `json:"params"`
}

type respondRequest struct {
	Context learner.Context `json:"context"`
	Input   string          `json:"input"`
}

const defaultVideoCount = 3

func (s *Server) healthz(c *gin.Context) {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listWorkflows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workflows": orchestrator.Workflows()})
}

func (s *Server) listActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": orchestrator.Actions()})
}

func (s *Server) runWorkflow(c *gin.Context) {
	var req workflowRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.orch.RunWorkflow(c.Request.Context(), c.Param("name"), req.Context.Trimmed(), req.Params)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) respond(c *gin.Context) {
	var req respondRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	resp, err := s.orch.Respond(c.Request.Context(), req.Context, req.Input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) runAction(c *gin.Context) {
	params, err := c.GetRawData()
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(params) > 0 && !json.Valid(params) {
		s.fail(c, &orchestrator.ErrValidation{Field: "body", Reason: "not valid JSON"})
		return
	}
	out, err := s.orch.RunAction(c.Request.Context(), c.Param("module"), c.Param("action"), params)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}

func (s *Server) listVideos(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		s.fail(c, &orchestrator.ErrValidation{Field: "topic", Reason: "required"})
		return
	}
	count := defaultVideoCount
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(c, &orchestrator.ErrValidation{Field: "count", Reason: "must be a non-negative integer"})
			return
		}
		count = n
	}
	q := video.Query{
		Topic:      topic,
		Difficulty: c.Query("difficulty"),
		Language:   c.Query("language"),
	}
	videos := s.videos.Recommend(topic, count, &q)
	if videos == nil {
		videos = []video.Candidate{}
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// bindOptionalJSON decodes the request body into dst; an empty body leaves
// dst untouched.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		return &orchestrator.ErrValidation{Field: "body", Reason: err.Error()}
	}
	return nil
}
