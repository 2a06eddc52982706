package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files(names ...string) []Artifact {
	out := make([]Artifact, 0, len(names))
	for _, name := range names {
		out = append(out, Artifact{Filename: name, Data: []byte(name)})
	}
	return out
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "john_doe_resume.pdf", want: "john doe"},
		{input: "johndoe_interview.mp3", want: "johndoe"},
		{input: "uploads/2024/Jane-Smith-CV.docx", want: "jane smith"},
		{input: `C:\Users\hr\Jane__Smith--Audio.wav`, want: "jane smith"},
		{input: "Recording - Alex Kim.m4a", want: "alex kim"},
		{input: "resumeAlex.pdf", want: "resumealex"},
		{input: "resume.pdf", want: ""},
		{input: "no_extension", want: "no extension"},
		{input: "Mary.Ann_Lee_resume.pdf", want: "mary.ann lee"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestResolveSubstringMatch(t *testing.T) {
	t.Parallel()

	buckets := Resolve(files("john_doe_resume.pdf"), files("johndoe_interview.mp3"))

	require.Equal(t, 1, buckets.Len())
	bucket, ok := buckets.Get("john doe")
	require.True(t, ok)
	require.NotNil(t, bucket.Resume)
	require.NotNil(t, bucket.Audio)
	assert.Equal(t, "john_doe_resume.pdf", bucket.Resume.Filename)
	assert.Equal(t, "johndoe_interview.mp3", bucket.Audio.Filename)
}

func TestResolveExactMatchWinsOverEarlierWordMatch(t *testing.T) {
	t.Parallel()

	buckets := Resolve(
		files("jane_smith_resume.pdf", "jane_doe_resume.pdf"),
		files("jane_doe_interview.mp3"),
	)

	smith, _ := buckets.Get("jane smith")
	doe, _ := buckets.Get("jane doe")
	assert.Nil(t, smith.Audio)
	require.NotNil(t, doe.Audio)
	assert.Equal(t, "jane_doe_interview.mp3", doe.Audio.Filename)
}

func TestResolveWordOverlapUsesInsertionOrder(t *testing.T) {
	t.Parallel()

	buckets := Resolve(
		files("alex_kim_resume.pdf", "alex_lee_resume.pdf"),
		files("alex_audio.mp3"),
	)

	kim, _ := buckets.Get("alex kim")
	lee, _ := buckets.Get("alex lee")
	require.NotNil(t, kim.Audio)
	assert.Nil(t, lee.Audio)
}

func TestResolveWordOverlapBeatsEarlierSubstring(t *testing.T) {
	t.Parallel()

	// "maria" is a substring of "mariana" in the first bucket, but the second
	// bucket shares a whole word, and whole-word overlap is tried first.
	buckets := Resolve(
		files("mariana_resume.pdf", "maria_lopez_resume.pdf"),
		files("maria_interview.mp3"),
	)

	first, _ := buckets.Get("mariana")
	second, _ := buckets.Get("maria lopez")
	assert.Nil(t, first.Audio)
	require.NotNil(t, second.Audio)
}

func TestResolveShortWordsDoNotPartiallyMatch(t *testing.T) {
	t.Parallel()

	buckets := Resolve(files("al_resume.pdf"), files("alan_interview.mp3"))

	assert.Equal(t, 2, buckets.Len())
	assert.Equal(t, []string{"al", "alan"}, buckets.Keys())

	standalone, ok := buckets.Get("alan")
	require.True(t, ok)
	assert.Nil(t, standalone.Resume)
	require.NotNil(t, standalone.Audio)
}

func TestResolveLaterResumeReplacesEarlier(t *testing.T) {
	t.Parallel()

	resumes := []Artifact{
		{Filename: "john_doe_resume.pdf", Data: []byte("v1")},
		{Filename: "John-Doe-CV.pdf", Data: []byte("v2")},
	}

	buckets := Resolve(resumes, nil)
	require.Equal(t, 1, buckets.Len())

	bucket, _ := buckets.Get("john doe")
	assert.Equal(t, "John-Doe-CV.pdf", bucket.Resume.Filename)
	assert.Equal(t, []byte("v2"), bucket.Resume.Data)
}

func TestResolveEveryBucketHasArtifact(t *testing.T) {
	t.Parallel()

	buckets := Resolve(
		files("a_resume.pdf", "bob_resume.pdf", "carol_cv.docx"),
		files("bob.mp3", "dave_recording.wav", "zed.ogg"),
	)

	assert.Equal(t, []string{"a", "bob", "carol", "dave", "zed"}, buckets.Keys())
	for _, bucket := range buckets.Items() {
		assert.True(t, bucket.Resume != nil || bucket.Audio != nil, "bucket %q is empty", bucket.Key)
	}
}

func TestResolveEmptyInputs(t *testing.T) {
	t.Parallel()

	buckets := Resolve(nil, nil)
	assert.Equal(t, 0, buckets.Len())
	assert.Empty(t, buckets.Items())
}
