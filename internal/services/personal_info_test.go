package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Marie Doe
Austin, TX
jane.DOE@Example.com | +1 555.123.4567
linkedin.com/in/jane-doe
https://github.com/janedoe

Summary
Backend engineer.`

func TestPersonalInfoExtractor_AllFields(t *testing.T) {
	info := NewPersonalInfoExtractor().ExtractAll(sampleResume)

	require.NotNil(t, info.Name)
	assert.Equal(t, "Jane Marie Doe", *info.Name)
	require.NotNil(t, info.Email)
	assert.Equal(t, "jane.doe@example.com", *info.Email)
	require.NotNil(t, info.Phone)
	assert.Equal(t, "+1-555-123-4567", *info.Phone)
	require.NotNil(t, info.LinkedIn)
	assert.Equal(t, "linkedin.com/in/jane-doe", *info.LinkedIn)
	require.NotNil(t, info.Location)
	assert.Equal(t, "Austin, TX", *info.Location)
	require.NotNil(t, info.Portfolio)
}

func TestPersonalInfoExtractor_NameLabel(t *testing.T) {
	info := NewPersonalInfoExtractor().ExtractAll("\n\nName: John Smith\nSoftware developer")
	require.NotNil(t, info.Name)
	assert.Equal(t, "John Smith", *info.Name)
}

func TestPersonalInfoExtractor_AllCapsName(t *testing.T) {
	info := NewPersonalInfoExtractor().ExtractAll("JOHN SMITH\nengineer")
	require.NotNil(t, info.Name)
	assert.Equal(t, "JOHN SMITH", *info.Name)
}

func TestPersonalInfoExtractor_NameOutsideWindow(t *testing.T) {
	text := "1\n2\n3\n4\n5\nJohn Smith"
	info := NewPersonalInfoExtractor().ExtractAll(text)
	assert.Nil(t, info.Name)
}

func TestPersonalInfoExtractor_EmptyText(t *testing.T) {
	info := NewPersonalInfoExtractor().ExtractAll("")

	assert.Nil(t, info.Name)
	assert.Nil(t, info.Email)
	assert.Nil(t, info.Phone)
	assert.Nil(t, info.LinkedIn)
	assert.Nil(t, info.Portfolio)
	assert.Nil(t, info.Location)
}

func TestPersonalInfoExtractor_LocationSkipsUniversity(t *testing.T) {
	text := "state university of Austin, TX\nlives in Denver, CO"
	info := NewPersonalInfoExtractor().ExtractAll(text)
	require.NotNil(t, info.Location)
	assert.Equal(t, "Denver, CO", *info.Location)
}
