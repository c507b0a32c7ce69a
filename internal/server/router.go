/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"snilstudio/internal/storage"
	"snilstudio/internal/version"
)

// NewRouter builds the HTTP API around one session.
func NewRouter(s *Session) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			_, rev := s.Text()
			c.JSON(http.StatusOK, gin.H{
				"status":   "ok",
				"version":  version.String(),
				"revision": rev,
			})
		})

		api.GET("/script", func(c *gin.Context) {
			text, rev := s.Text()
			c.JSON(http.StatusOK, gin.H{"text": text, "revision": rev})
		})

		api.PUT("/script", func(c *gin.Context) {
			var req struct {
				Text string `json:"text"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rev := s.Replace(c.Request.Context(), req.Text)
			c.JSON(http.StatusOK, gin.H{"revision": rev})
		})

		api.POST("/undo", func(c *gin.Context) {
			rev, ok := s.Undo(c.Request.Context())
			if !ok {
				c.JSON(http.StatusConflict, gin.H{"error": "nothing to undo"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"revision": rev})
		})

		api.POST("/redo", func(c *gin.Context) {
			rev, ok := s.Redo(c.Request.Context())
			if !ok {
				c.JSON(http.StatusConflict, gin.H{"error": "nothing to redo"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"revision": rev})
		})

		api.GET("/sections", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"sections": s.Sections()})
		})

		api.GET("/sections/:index", func(c *gin.Context) {
			idx, err := strconv.Atoi(c.Param("index"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
				return
			}
			sec, ok := s.Section(idx)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "no such section"})
				return
			}
			c.JSON(http.StatusOK, sec)
		})

		api.GET("/folds", func(c *gin.Context) {
			ranges, folded := s.Folds()
			c.JSON(http.StatusOK, gin.H{"ranges": ranges, "folded": folded})
		})

		api.POST("/folds/toggle", func(c *gin.Context) {
			var req struct {
				Line int `json:"line"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			folded, ok := s.ToggleFold(req.Line)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "no fold starts at line"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"line": req.Line, "folded": folded})
		})

		api.POST("/complete", func(c *gin.Context) {
			var req struct {
				Line   int `json:"line"`
				Cursor int `json:"cursor"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx, candidates := s.Complete(req.Line, req.Cursor)
			if ctx == nil {
				c.JSON(http.StatusOK, gin.H{"context": nil, "candidates": []string{}})
				return
			}
			c.JSON(http.StatusOK, gin.H{"context": ctx, "candidates": candidates})
		})

		api.GET("/search", func(c *gin.Context) {
			root := s.Workspace()
			if root == "" {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session has no workspace"})
				return
			}
			q := storage.SearchQuery{
				Text:        c.Query("q"),
				SectionFrom: -1,
				SectionTo:   -1,
			}
			if v := c.Query("section"); v != "" {
				if n, err := strconv.Atoi(v); err == nil {
					q.SectionFrom, q.SectionTo = n, n
				}
			}
			if v := c.Query("type"); v != "" {
				q.Types = []string{v}
			}
			res, err := storage.Search(c.Request.Context(), root, q)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if res == nil {
				res = []storage.SearchResult{}
			}
			c.JSON(http.StatusOK, gin.H{"results": res})
		})
	}

	r.GET("/ws", func(c *gin.Context) { serveWS(s, c.Writer, c.Request) })

	return r
}
