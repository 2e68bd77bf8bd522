package memotest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"memoclient/domain"
	"memoclient/pkg/common"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"message": message})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	s.mu.Lock()
	user, ok := s.users[username]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	User       *domain.User `json:"user"`
	UpdateMask []string     `json:"updateMask"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.User == nil {
		writeError(w, http.StatusBadRequest, "malformed user update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	for _, field := range req.UpdateMask {
		switch field {
		case "nickname":
			user.Nickname = req.User.Nickname
		case "avatar_url":
			user.AvatarURL = req.User.AvatarURL
		case "password":
			user.Password = req.User.Password
		case "setting":
			user.Setting = req.User.Setting
		default:
			writeError(w, http.StatusBadRequest, "unrecognized update mask field: "+field)
			return
		}
	}

	// passwords never travel back
	result := user.Clone()
	result.Password = ""
	writeJSON(w, http.StatusOK, result)
}

type listMemosResponse struct {
	Memos         []*domain.Memo `json:"memos"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

func (s *Server) handleListMemos(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pageSize := common.DefaultPageSize
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed pageSize")
			return
		}
		pageSize = common.ClampPageSize(size)
	}

	offset, err := common.DecodePageToken(r.URL.Query().Get("pageToken"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	matched := make([]*domain.Memo, 0, len(s.memos))
	for _, memo := range s.memos {
		if matchesFilter(memo, f) {
			matched = append(matched, memo.Clone())
		}
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedTs != matched[j].CreatedTs {
			return matched[i].CreatedTs > matched[j].CreatedTs
		}
		return matched[i].ID > matched[j].ID
	})
	if f.orderByPinned {
		pinned := make([]*domain.Memo, 0, len(matched))
		unpinned := make([]*domain.Memo, 0, len(matched))
		for _, memo := range matched {
			if memo.Pinned {
				pinned = append(pinned, memo)
			} else {
				unpinned = append(unpinned, memo)
			}
		}
		matched = append(pinned, unpinned...)
	}

	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	resp := listMemosResponse{Memos: matched[offset:end]}
	if end < len(matched) {
		resp.NextPageToken = common.EncodePageToken(end)
	}
	writeJSON(w, http.StatusOK, resp)
}

func matchesFilter(memo *domain.Memo, f listFilter) bool {
	if f.rowStatus != "" && string(memo.RowStatus) != f.rowStatus {
		return false
	}
	if f.creator != "" && domain.ExtractUsername(f.creator) != memo.CreatorUsername() {
		return false
	}
	if len(f.visibilities) > 0 {
		match := false
		for _, v := range f.visibilities {
			if string(memo.Visibility) == v {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	for _, term := range f.contentSearch {
		if !strings.Contains(strings.ToLower(memo.Content), strings.ToLower(term)) {
			return false
		}
	}
	return true
}

type createMemoRequest struct {
	Content        string                `json:"content"`
	Visibility     domain.Visibility     `json:"visibility"`
	ResourceIDList []int64               `json:"resourceIdList"`
	RelationList   []domain.MemoRelation `json:"relationList"`
}

func (s *Server) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var req createMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed memo")
		return
	}
	if req.Content == "" && len(req.ResourceIDList) == 0 {
		writeError(w, http.StatusBadRequest, "memo needs content or at least one resource")
		return
	}

	username := s.requestUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMemoID++
	memo := &domain.Memo{
		ID:         s.nextMemoID,
		Creator:    domain.FormatUserName(username),
		Content:    req.Content,
		Visibility: req.Visibility,
		RowStatus:  domain.RowStatusNormal,
		CreatedTs:  s.tickLocked(),
	}
	memo.UpdatedTs = memo.CreatedTs
	if memo.Visibility == "" {
		memo.Visibility = domain.VisibilityPrivate
	}
	memo.RelationList = domain.NormalizeRelations(memo.ID, req.RelationList)

	for _, resourceID := range req.ResourceIDList {
		resource, ok := s.resources[resourceID]
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown resource id")
			return
		}
		linked := *resource
		linked.MemoID = &memo.ID
		s.resources[resourceID] = &linked
		memo.ResourceList = append(memo.ResourceList, linked)
	}

	s.memos[memo.ID] = memo
	s.registerTagsLocked(username, memo.Content)
	writeJSON(w, http.StatusOK, memo)
}

func (s *Server) handleGetMemo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed memo id")
		return
	}

	s.mu.Lock()
	memo, ok := s.memos[id]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "memo not found")
		return
	}
	writeJSON(w, http.StatusOK, memo)
}

type updateMemoRequest struct {
	Content    *string            `json:"content"`
	Visibility *domain.Visibility `json:"visibility"`
	RowStatus  *domain.RowStatus  `json:"rowStatus"`
	Pinned     *bool              `json:"pinned"`
	CreatedTs  *int64             `json:"createdTs"`
	UpdateMask []string           `json:"updateMask"`
}

func (s *Server) handleUpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed memo id")
		return
	}

	var req updateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed memo update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memo, ok := s.memos[id]
	if !ok {
		writeError(w, http.StatusNotFound, "memo not found")
		return
	}

	for _, field := range req.UpdateMask {
		switch field {
		case "content":
			if req.Content == nil {
				writeError(w, http.StatusBadRequest, "content masked but not set")
				return
			}
			memo.Content = *req.Content
			s.registerTagsLocked(memo.CreatorUsername(), memo.Content)
		case "visibility":
			if req.Visibility == nil {
				writeError(w, http.StatusBadRequest, "visibility masked but not set")
				return
			}
			memo.Visibility = *req.Visibility
		case "row_status":
			if req.RowStatus == nil {
				writeError(w, http.StatusBadRequest, "row_status masked but not set")
				return
			}
			memo.RowStatus = *req.RowStatus
		case "pinned":
			if req.Pinned == nil {
				writeError(w, http.StatusBadRequest, "pinned masked but not set")
				return
			}
			memo.Pinned = *req.Pinned
		case "created_ts":
			if req.CreatedTs == nil {
				writeError(w, http.StatusBadRequest, "created_ts masked but not set")
				return
			}
			memo.CreatedTs = *req.CreatedTs
		default:
			writeError(w, http.StatusBadRequest, "unrecognized update mask field: "+field)
			return
		}
	}
	memo.UpdatedTs = s.tickLocked()

	writeJSON(w, http.StatusOK, memo)
}

func (s *Server) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed memo id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memos[id]; !ok {
		writeError(w, http.StatusNotFound, "memo not found")
		return
	}
	delete(s.memos, id)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleMemoStats(w http.ResponseWriter, r *http.Request) {
	username := domain.ExtractUsername(r.URL.Query().Get("creator"))

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]int64, 0)
	for _, memo := range s.memos {
		if memo.CreatorUsername() == username && memo.RowStatus == domain.RowStatusNormal {
			stats = append(stats, memo.CreatedTs)
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i] < stats[j] })

	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	username := domain.ExtractUsername(r.URL.Query().Get("creator"))
	if username == "" {
		username = s.requestUser(r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]string, 0, len(s.tags[username]))
	for tag := range s.tags[username] {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

type upsertTagRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleUpsertTag(w http.ResponseWriter, r *http.Request) {
	var req upsertTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "tag name cannot be empty")
		return
	}

	username := s.requestUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tags[username] == nil {
		s.tags[username] = make(map[string]struct{})
	}
	s.tags[username][req.Name] = struct{}{}

	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "tag name cannot be empty")
		return
	}

	username := s.requestUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tags[username], name)

	writeJSON(w, http.StatusOK, nil)
}

type createResourceRequest struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Blob     []byte `json:"blob"`
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed resource")
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "resource filename cannot be empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextResourceID++
	resource := &domain.Resource{
		ID:        s.nextResourceID,
		Filename:  req.Filename,
		Type:      req.Type,
		Size:      int64(len(req.Blob)),
		CreatedTs: s.tickLocked(),
	}
	s.resources[resource.ID] = resource

	writeJSON(w, http.StatusOK, resource)
}

type updateResourceRequest struct {
	Filename   *string  `json:"filename"`
	MemoID     *int64   `json:"memoId"`
	UpdateMask []string `json:"updateMask"`
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed resource id")
		return
	}

	var req updateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed resource update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resource, ok := s.resources[id]
	if !ok {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	for _, field := range req.UpdateMask {
		switch field {
		case "filename":
			if req.Filename == nil {
				writeError(w, http.StatusBadRequest, "filename masked but not set")
				return
			}
			resource.Filename = *req.Filename
		case "memo_id":
			resource.MemoID = req.MemoID
		default:
			writeError(w, http.StatusBadRequest, "unrecognized update mask field: "+field)
			return
		}
	}

	writeJSON(w, http.StatusOK, resource)
}
