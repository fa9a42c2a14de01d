package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/notes"
)

// envelope mirrors Response with raw data for per-test decoding.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Timestamp  string          `json:"timestamp"`
	Count      *int            `json:"count"`
	Error      string          `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	_, err := time.Parse(time.RFC3339Nano, env.Timestamp)
	require.NoError(t, err, "timestamp must be RFC 3339")
	return env
}

func TestListNotes(t *testing.T) {
	t.Parallel()

	t.Run("returns notes with count", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)

		list := []notes.Note{
			*sampleNote(testID, "Second", "b"),
			*sampleNote(missingID, "First", "a"),
		}
		mockDS.On("List", mock.Anything).Return(list, nil).Once()

		rec := doRequest(t, e, http.MethodGet, notesRoute, "")
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.True(t, env.Success)
		assert.Equal(t, MsgNotesFetched, env.Message)
		assert.Equal(t, http.StatusOK, env.StatusCode)
		require.NotNil(t, env.Count)
		assert.Equal(t, 2, *env.Count)

		var got []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &got))
		require.Len(t, got, 2)
		assert.Equal(t, testID, got[0]["id"])
		assert.Equal(t, "2024-01-01T10:00:00.000Z", got[0]["createdAt"])
	})

	t.Run("empty store yields empty array", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("List", mock.Anything).Return(nil, nil).Once()

		rec := doRequest(t, e, http.MethodGet, notesRoute, "")
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.JSONEq(t, `[]`, string(env.Data))
		require.NotNil(t, env.Count)
		assert.Zero(t, *env.Count)
	})

	t.Run("store failure is hidden", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("List", mock.Anything).
			Return(nil, errors.Newf("connection refused").Category(errors.CategoryDatabase).Build()).Once()

		rec := doRequest(t, e, http.MethodGet, notesRoute, "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.False(t, env.Success)
		assert.Equal(t, notes.MsgInternalError, env.Message)
		assert.Equal(t, notes.MsgInternalError, env.Error)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestGetNote(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		id             string
		mockSetup      func(m *MockDataStore)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "existing note",
			id:   testID,
			mockSetup: func(m *MockDataStore) {
				m.On("Get", mock.Anything, testID).Return(sampleNote(testID, "Hello", "World"), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    MsgNoteFetched,
		},
		{
			name: "well-formed id without note",
			id:   missingID,
			mockSetup: func(m *MockDataStore) {
				m.On("Get", mock.Anything, missingID).Return(nil, notes.NotFound(missingID)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    notes.MsgNoteNotFound,
		},
		{
			name:           "malformed id",
			id:             "abc123",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    notes.MsgInvalidID,
		},
		{
			name:           "25 hex characters",
			id:             testID + "a",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    notes.MsgInvalidID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e, mockDS := setupTestEnvironment(t)
			if tc.mockSetup != nil {
				tc.mockSetup(mockDS)
			}

			rec := doRequest(t, e, http.MethodGet, notesRoute+"/"+tc.id, "")
			assert.Equal(t, tc.expectedStatus, rec.Code)

			env := decodeEnvelope(t, rec.Body.Bytes())
			assert.Equal(t, tc.expectedMsg, env.Message)
			assert.Equal(t, tc.expectedStatus, env.StatusCode)
			assert.Equal(t, tc.expectedStatus == http.StatusOK, env.Success)
			if tc.mockSetup == nil {
				requireNoStoreCalls(t, mockDS)
			}
		})
	}
}

func TestCreateNote(t *testing.T) {
	t.Parallel()

	t.Run("valid note", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("Create", mock.Anything, "Hello", "World").
			Return(sampleNote(testID, "Hello", "World"), nil).Once()

		rec := doRequest(t, e, http.MethodPost, notesRoute, `{"title":"Hello","content":"World"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.True(t, env.Success)
		assert.Equal(t, MsgNoteCreated, env.Message)
		assert.Equal(t, http.StatusCreated, env.StatusCode)
		assert.Nil(t, env.Count)

		var got notes.Note
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, testID, got.ID)
		assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("Create", mock.Anything, "T", "C").Return(sampleNote(testID, "T", "C"), nil).Once()

		rec := doRequest(t, e, http.MethodPost, notesRoute, `{"title":"T","content":"C","pinned":true}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("title is passed untrimmed to the store", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("Create", mock.Anything, "  Padded  ", "body").
			Return(sampleNote(testID, "Padded", "body"), nil).Once()

		rec := doRequest(t, e, http.MethodPost, notesRoute, `{"title":"  Padded  ","content":"body"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("Create", mock.Anything, "T", "C").
			Return(nil, errors.Newf("write failed").Category(errors.CategoryDatabase).Build()).Once()

		rec := doRequest(t, e, http.MethodPost, notesRoute, `{"title":"T","content":"C"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.Equal(t, notes.MsgInternalError, env.Message)
	})
}

func TestNoteBodyValidation(t *testing.T) {
	t.Parallel()

	long := func(n int) string { return strings.Repeat("x", n) }

	testCases := []struct {
		name        string
		body        string
		expectedMsg string
	}{
		{"missing content", `{"title":"Only title"}`, notes.MsgMissingFields},
		{"missing title", `{"content":"Only content"}`, notes.MsgMissingFields},
		{"empty object", `{}`, notes.MsgMissingFields},
		{"empty strings", `{"title":"","content":""}`, notes.MsgMissingFields},
		{"null fields", `{"title":null,"content":"x"}`, notes.MsgMissingFields},
		{"whitespace title", `{"title":"   ","content":"x"}`, notes.MsgEmptyFields},
		{"whitespace content", `{"title":"x","content":"\n\t"}`, notes.MsgEmptyFields},
		{"title too long", `{"title":"` + long(101) + `","content":"x"}`, notes.MsgTitleTooLong},
		{"content too long", `{"title":"x","content":"` + long(5001) + `"}`, notes.MsgContentTooLong},
		{"title checked before content", `{"title":"` + long(101) + `","content":"` + long(5001) + `"}`, notes.MsgTitleTooLong},
		{"numeric title", `{"title":42,"content":"x"}`, notes.MsgInvalidBody},
		{"array body", `[1,2]`, notes.MsgInvalidBody},
		{"malformed json", `{"title":`, notes.MsgInvalidBody},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			for _, req := range []struct{ method, target string }{
				{http.MethodPost, notesRoute},
				{http.MethodPut, notesRoute + "/" + testID},
			} {
				e, mockDS := setupTestEnvironment(t)

				rec := doRequest(t, e, req.method, req.target, tc.body)
				assert.Equal(t, http.StatusBadRequest, rec.Code, req.method)

				env := decodeEnvelope(t, rec.Body.Bytes())
				assert.False(t, env.Success)
				assert.Equal(t, tc.expectedMsg, env.Message, req.method)
				assert.Equal(t, tc.expectedMsg, env.Error, req.method)
				assert.Equal(t, "null", string(env.Data))
				requireNoStoreCalls(t, mockDS)
			}
		})
	}
}

func TestNoteBodyContentType(t *testing.T) {
	t.Parallel()

	const body = `{"title":"Hello","content":"World"}`

	t.Run("non-JSON bodies have no fields", func(t *testing.T) {
		t.Parallel()

		for _, contentType := range []string{"", echo.MIMETextPlain, echo.MIMEApplicationForm} {
			e, mockDS := setupTestEnvironment(t)

			req := httptest.NewRequest(http.MethodPost, notesRoute, strings.NewReader(body))
			if contentType != "" {
				req.Header.Set(echo.HeaderContentType, contentType)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, contentType)
			assert.Equal(t, notes.MsgMissingFields, decodeEnvelope(t, rec.Body.Bytes()).Message, contentType)
			requireNoStoreCalls(t, mockDS)
		}
	})

	t.Run("charset parameter is accepted", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("Create", mock.Anything, "Hello", "World").
			Return(sampleNote(testID, "Hello", "World"), nil).Once()

		req := httptest.NewRequest(http.MethodPost, notesRoute, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestNoteBodyLengthBoundaries(t *testing.T) {
	t.Parallel()
	e, mockDS := setupTestEnvironment(t)

	// Limits count characters, so multi-byte runes at the limit pass.
	title := strings.Repeat("é", notes.TitleMaxLength)
	content := strings.Repeat("ü", notes.ContentMaxLength)
	mockDS.On("Create", mock.Anything, title, content).Return(sampleNote(testID, title, content), nil).Once()

	body, err := json.Marshal(map[string]string{"title": title, "content": content})
	require.NoError(t, err)

	rec := doRequest(t, e, http.MethodPost, notesRoute, string(body))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdateNote(t *testing.T) {
	t.Parallel()

	t.Run("existing note", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)

		updated := sampleNote(testID, "New", "Body")
		updated.UpdatedAt = updated.CreatedAt.Add(time.Minute)
		mockDS.On("Update", mock.Anything, testID, "New", "Body").Return(updated, nil).Once()

		rec := doRequest(t, e, http.MethodPut, notesRoute+"/"+testID, `{"title":"New","content":"Body"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.Equal(t, MsgNoteUpdated, env.Message)

		var got notes.Note
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("missing note", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)
		mockDS.On("Update", mock.Anything, missingID, "T", "C").Return(nil, notes.NotFound(missingID)).Once()

		rec := doRequest(t, e, http.MethodPut, notesRoute+"/"+missingID, `{"title":"T","content":"C"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.Equal(t, notes.MsgNoteNotFound, env.Message)
	})

	t.Run("id is checked before body", func(t *testing.T) {
		t.Parallel()
		e, mockDS := setupTestEnvironment(t)

		rec := doRequest(t, e, http.MethodPut, notesRoute+"/nothex", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.Equal(t, notes.MsgInvalidID, env.Message)
		requireNoStoreCalls(t, mockDS)
	})
}

func TestDeleteNote(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		id             string
		mockSetup      func(m *MockDataStore)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "existing note",
			id:   testID,
			mockSetup: func(m *MockDataStore) {
				m.On("Delete", mock.Anything, testID).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    MsgNoteDeleted,
		},
		{
			name: "missing note",
			id:   missingID,
			mockSetup: func(m *MockDataStore) {
				m.On("Delete", mock.Anything, missingID).Return(notes.NotFound(missingID)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    notes.MsgNoteNotFound,
		},
		{
			name:           "malformed id",
			id:             "zzzzzzzzzzzzzzzzzzzzzzzz",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    notes.MsgInvalidID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e, mockDS := setupTestEnvironment(t)
			if tc.mockSetup != nil {
				tc.mockSetup(mockDS)
			}

			rec := doRequest(t, e, http.MethodDelete, notesRoute+"/"+tc.id, "")
			assert.Equal(t, tc.expectedStatus, rec.Code)

			env := decodeEnvelope(t, rec.Body.Bytes())
			assert.Equal(t, tc.expectedMsg, env.Message)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, "null", string(env.Data))
			}
		})
	}
}
