package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformError_Error(t *testing.T) {
	err := New(CodeNotSupported, "extension svg is not readable")
	require.Equal(t, "[NOT_SUPPORTED] extension svg is not readable", err.Error())
}

func TestPlatformError_Error_WithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeNetwork, "failed to fetch image")

	require.Contains(t, err.Error(), "[NETWORK_ERROR]")
	require.Contains(t, err.Error(), "failed to fetch image")
	require.Contains(t, err.Error(), "connection refused")
	require.True(t, Is(err, cause))
}

func TestNewf(t *testing.T) {
	err := Newf(CodeFormatNotSupported, "cannot read %s", "image/svg+xml")
	require.Equal(t, CodeFormatNotSupported, err.Code())
	require.Equal(t, "cannot read image/svg+xml", err.Message())
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name          string
		code          ErrorCode
		wantRetryable bool
	}{
		{"source failure is retryable", CodeSourceFailed, true},
		{"network is retryable", CodeNetwork, true},
		{"timeout is retryable", CodeTimeout, true},
		{"unavailable is retryable", CodeUnavailable, true},
		{"not supported is permanent", CodeNotSupported, false},
		{"format not supported is permanent", CodeFormatNotSupported, false},
		{"decode failure is permanent", CodeDecodeFailed, false},
		{"unmapped code is permanent", ErrorCode("SOMETHING_ELSE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "test")
			require.Equal(t, tt.wantRetryable, err.Classification().IsRetryable())
			require.Equal(t, tt.wantRetryable, IsRetryable(err))
		})
	}
}

func TestWrap_PreservesClassification(t *testing.T) {
	inner := New(CodeTimeout, "slow server")
	outer := Wrap(inner, CodeSourceFailed, "fetch failed")

	require.Equal(t, CodeSourceFailed, outer.Code())
	require.Equal(t, ClassificationRetryable, outer.Classification())

	inner = New(CodeNotFound, "no such object")
	outer = Wrap(inner, CodeSourceFailed, "fetch failed")
	require.Equal(t, ClassificationPermanent, outer.Classification())
}

func TestWrapf(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := Wrapf(cause, CodeInternal, "failed to encode result for %s", "mem://a")

	require.Equal(t, CodeInternal, err.Code())
	require.Equal(t, "failed to encode result for mem://a", err.Message())
	require.ErrorIs(t, err, cause)
}

func TestWrap_Nil(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeNetwork, "x"))
	require.Nil(t, Wrapf(nil, CodeNetwork, "x %d", 1))
	require.Nil(t, WithContext(nil, "k", "v"))
	require.Nil(t, WithClassification(nil, ClassificationRetryable))
}

func TestWithContext(t *testing.T) {
	err := New(CodeFormatNotSupported, "format not supported")
	err = WithContext(err, "detected_format", "image/svg+xml")
	err = WithContext(err, "uri", "https://example.com/a.svg")

	ctx := err.Context()
	require.Equal(t, "image/svg+xml", ctx["detected_format"])
	require.Equal(t, "https://example.com/a.svg", ctx["uri"])

	// Returned maps are copies.
	ctx["uri"] = "changed"
	require.Equal(t, "https://example.com/a.svg", err.Context()["uri"])

	v, ok := GetContextValue(err, "detected_format")
	require.True(t, ok)
	require.Equal(t, "image/svg+xml", v)

	_, ok = GetContextValue(stderrors.New("plain"), "detected_format")
	require.False(t, ok)
}

func TestWithContext_ConvertsStandardError(t *testing.T) {
	plain := stderrors.New("plain failure")
	err := WithContext(plain, "uri", "file://x.png")

	require.Equal(t, CodeUnknown, err.Code())
	require.Equal(t, ClassificationPermanent, err.Classification())
	require.True(t, Is(err, plain))
}

func TestWithClassification(t *testing.T) {
	err := New(CodeNotFound, "object missing")
	err = WithClassification(err, ClassificationRetryable)

	require.Equal(t, CodeNotFound, err.Code())
	require.True(t, IsRetryable(err))
}

func TestGetCode(t *testing.T) {
	require.Equal(t, CodeUnknown, GetCode(nil))
	require.Equal(t, CodeUnknown, GetCode(stderrors.New("x")))

	wrapped := fmt.Errorf("outer: %w", New(CodeDecodeFailed, "bad png"))
	require.Equal(t, CodeDecodeFailed, GetCode(wrapped))
}

func TestByteSize(t *testing.T) {
	require.Zero(t, ByteSize(nil))

	plain := stderrors.New("twelve bytes")
	require.Equal(t, 12, ByteSize(plain))

	err := New(CodeFormatNotSupported, "format not supported")
	base := err.ByteSize()
	require.Equal(t, headerSize+len("format not supported"), base)

	withCtx := WithContext(err, "detected_format", "git-lfs")
	require.Equal(t, base+len("detected_format")+len("git-lfs"), ByteSize(withCtx))

	wrapped := Wrap(plain, CodeDecodeFailed, "decode")
	require.Equal(t, headerSize+len("decode")+12, ByteSize(wrapped))
}

func TestToJSON(t *testing.T) {
	require.Nil(t, ToJSON(nil))

	err := WithContext(New(CodeFormatNotSupported, "format not supported"), "detected_format", "git-lfs")
	resp := ToJSON(err)
	require.NotNil(t, resp)
	assert.Equal(t, "FORMAT_NOT_SUPPORTED", resp.Code)
	assert.Equal(t, "PERMANENT", resp.Classification)
	assert.Equal(t, "format not supported", resp.Message)
	assert.Equal(t, "git-lfs", resp.Context["detected_format"])

	resp = ToJSON(stderrors.New("plain"))
	assert.Equal(t, "UNKNOWN", resp.Code)
	assert.Equal(t, "plain", resp.Message)
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(New(CodeNotSupported, "extension svg is not readable"))
	require.NoError(t, err)
	require.JSONEq(t,
		`{"code":"NOT_SUPPORTED","message":"extension svg is not readable","classification":"PERMANENT"}`,
		string(data))
}
