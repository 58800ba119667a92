package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tinyvm/loader"
	"tinyvm/parser"
	"tinyvm/service"
)

// handleCreateSession handles POST /api/v1/session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleListSessions handles GET /api/v1/session
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	})
}

// handleDestroySession handles DELETE /api/v1/session/{id}
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session destroyed"})
}

// handleGetSessionStatus handles GET /api/v1/session/{id} and /{id}/state
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID: sessionID,
		State:     string(session.Service.State()),
		Registers: ToRegistersResponse(session.Service.Snapshot()),
		Output:    session.Service.Output(),
	})
}

// handleLoadProgram handles POST /api/v1/session/{id}/load
func (s *Server) handleLoadProgram(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req LoadProgramRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	prog, loadErr := parser.Load(req.Source, loader.FileIncludeResolver("."))
	if loadErr != nil {
		writeJSON(w, http.StatusOK, LoadProgramResponse{Success: false, Error: loadErr.Error()})
		return
	}

	session.Service.Load(prog, broadcasterAdapter{s.broadcaster}, sessionID)
	debugLog("session %s loaded %d instructions", sessionID, len(prog.Instructions))

	writeJSON(w, http.StatusOK, LoadProgramResponse{
		Success:               true,
		InstructionCount:      len(prog.Instructions),
		StartInstructionIndex: prog.StartInstructionIndex,
	})
}

// handleStep handles POST /api/v1/session/{id}/step
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	state, stepErr := session.Service.Step()
	resp := SessionStatusResponse{
		SessionID: sessionID,
		State:     string(state),
		Registers: ToRegistersResponse(session.Service.Snapshot()),
		Output:    session.Service.Output(),
	}
	if stepErr != nil {
		resp.Error = stepErr.Error()
	}
	s.broadcaster.BroadcastRegisters(sessionID, resp.State, resp.Registers)
	if state == service.StateBreakpoint || state == service.StateHalted || stepErr != nil {
		s.broadcaster.BroadcastExecution(sessionID, resp.State, resp.Registers.Eip, stepErr)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRun handles POST /api/v1/session/{id}/run
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	state, runErr := session.Service.Run(ctx)
	resp := SessionStatusResponse{
		SessionID: sessionID,
		State:     string(state),
		Registers: ToRegistersResponse(session.Service.Snapshot()),
		Output:    session.Service.Output(),
	}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	s.broadcaster.BroadcastRegisters(sessionID, resp.State, resp.Registers)
	s.broadcaster.BroadcastExecution(sessionID, resp.State, resp.Registers.Eip, runErr)
	writeJSON(w, http.StatusOK, resp)
}

// handleReset handles POST /api/v1/session/{id}/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := session.Service.Reset(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID: sessionID,
		State:     string(session.Service.State()),
		Registers: ToRegistersResponse(session.Service.Snapshot()),
		Output:    session.Service.Output(),
	})
}

// handleBreakpoint handles POST (set) and DELETE (clear) on
// /api/v1/session/{id}/breakpoint
func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req BreakpointRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		session.Service.SetBreakpoint(req.InstructionIndex)
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	case http.MethodDelete:
		idx, err := strconv.ParseInt(r.URL.Query().Get("instructionIndex"), 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "instructionIndex query parameter required")
			return
		}
		session.Service.ClearBreakpoint(int32(idx))
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListBreakpoints handles GET /api/v1/session/{id}/breakpoints
func (s *Server) handleListBreakpoints(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: session.Service.Breakpoints()})
}
