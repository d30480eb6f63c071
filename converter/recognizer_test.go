package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-convert-go/model"
)

func textLine(text string) model.Line {
	return model.Line{
		Tracks: []model.AnnotatedTrack{{
			ContentType: model.ContentTypeMain,
			Content:     model.NewLineTimedTrack(text, 0, 0),
		}},
	}
}

func syllableLine(syllables ...string) model.Line {
	word := model.Word{}
	for _, s := range syllables {
		word.Syllables = append(word.Syllables, model.Syllable{Text: s})
	}
	return model.Line{
		Tracks: []model.AnnotatedTrack{{
			ContentType: model.ContentTypeMain,
			Content:     model.Track{Words: []model.Word{word}},
		}},
	}
}

func TestRecognizeAgents_BlockMode(t *testing.T) {
	data := &model.ParsedSourceData{
		Lines: []model.Line{
			textLine("TwoP："),
			textLine("都说爱情要慢慢来"),
			textLine("我的那个她却又慢半拍"),
			textLine("Stake:"),
			textLine("怕你跟不上我的节奏"),
		},
	}

	RecognizeAgents(data)

	require.Len(t, data.Lines, 3, "pure marker lines must be dropped")
	assert.Equal(t, "v1", data.Lines[0].Agent)
	assert.Equal(t, "v1", data.Lines[1].Agent)
	assert.Equal(t, "v2", data.Lines[2].Agent)

	require.Equal(t, 2, data.Agents.Len())
	twoP, _ := data.Agents.Get("v1")
	assert.Equal(t, "TwoP", twoP.Name)
	assert.Equal(t, model.AgentTypePerson, twoP.Type)
	stake, _ := data.Agents.Get("v2")
	assert.Equal(t, "Stake", stake.Name)
}

func TestRecognizeAgents_InlineGroupAlias(t *testing.T) {
	data := &model.ParsedSourceData{
		Lines: []model.Line{textLine("（合）：合唱歌词")},
	}

	RecognizeAgents(data)

	require.Len(t, data.Lines, 1)
	assert.Equal(t, "合唱歌词", data.Lines[0].MainText())
	assert.Equal(t, "v1", data.Lines[0].Agent)

	agent, ok := data.Agents.Get("v1")
	require.True(t, ok)
	assert.Equal(t, "合", agent.Name)
	assert.Equal(t, model.AgentTypeGroup, agent.Type)
}

func TestRecognizeAgents_InlineMode(t *testing.T) {
	data := &model.ParsedSourceData{
		Lines: []model.Line{
			textLine("汪：摘一颗苹果"),
			textLine("等你看我从门前过"),
			textLine("BY2：像夏天的可乐"),
			textLine("像冬天的可可"),
		},
	}

	RecognizeAgents(data)

	require.Len(t, data.Lines, 4)
	assert.Equal(t, "v1", data.Lines[0].Agent)
	assert.Equal(t, "摘一颗苹果", data.Lines[0].MainText())
	assert.Equal(t, "v1", data.Lines[1].Agent, "unmarked lines inherit the current agent")
	assert.Equal(t, "v2", data.Lines[2].Agent)
	assert.Equal(t, "像夏天的可乐", data.Lines[2].MainText())
	assert.Equal(t, "v2", data.Lines[3].Agent)
}

func TestRecognizeAgents_MarkerSplitAcrossSyllables(t *testing.T) {
	data := &model.ParsedSourceData{
		Lines: []model.Line{
			syllableLine("TwoP", "："),
			syllableLine("第", "二", "句", "逐", "字", "歌", "词"),
			textLine("  Stake: 第三句行内歌词"),
			textLine("第四句继承Stake"),
		},
	}

	RecognizeAgents(data)

	require.Len(t, data.Lines, 3)
	assert.Equal(t, "v1", data.Lines[0].Agent)
	assert.Equal(t, "v2", data.Lines[1].Agent)
	assert.Equal(t, "第三句行内歌词", data.Lines[1].MainText())
	assert.Equal(t, "v2", data.Lines[2].Agent)
}

func TestRecognizeAgents_NoAgents(t *testing.T) {
	data := &model.ParsedSourceData{
		Lines: []model.Line{
			textLine("这是一行普通歌词"),
			textLine("这是另一行普通歌词"),
		},
	}

	RecognizeAgents(data)

	require.Len(t, data.Lines, 2)
	assert.Empty(t, data.Lines[0].Agent)
	assert.Empty(t, data.Lines[1].Agent)
	assert.Equal(t, 0, data.Agents.Len())
	assert.Equal(t, "这是一行普通歌词", data.Lines[0].MainText())
}

func TestRecognizeAgents_ExistingAgentsReused(t *testing.T) {
	agents := model.NewAgentStore()
	agents.Add(model.Agent{ID: "v1", Name: "Alice", Type: model.AgentTypePerson})

	data := &model.ParsedSourceData{
		Lines:  []model.Line{textLine("Alice：hello"), textLine("Bob：hi")},
		Agents: agents,
	}

	RecognizeAgents(data)

	assert.Equal(t, "v1", data.Lines[0].Agent, "known names must resolve to their existing ID")
	assert.Equal(t, "v2", data.Lines[1].Agent)
	assert.Equal(t, 2, data.Agents.Len())
}
