package model

// Entry is one dated journal entry together with the references found in its text.
//
// Entries are mutated in place by extraction and are not safe for concurrent use.
type Entry struct {
	// Date is free-form but acts as the entry's unique display key.
	Date string `json:"date" yaml:"date"`

	Text string `json:"text" yaml:"text"`

	// Scriptures are kept in discovery order.
	Scriptures []Scripture `json:"scriptures" yaml:"scriptures"`

	// Topics are canonical topic names in discovery order, without duplicates.
	Topics []string `json:"topics" yaml:"topics"`
}

// NewEntry creates an entry with the given date and text and no references.
func NewEntry(date, text string) *Entry {
	return &Entry{Date: date, Text: text}
}

// AddScripture appends a scripture.
func (e *Entry) AddScripture(s Scripture) {
	e.Scriptures = append(e.Scriptures, s)
}

// RemoveScripture removes the scripture at index i. Out-of-range indices are ignored.
func (e *Entry) RemoveScripture(i int) {
	if i < 0 || i >= len(e.Scriptures) {
		return
	}
	e.Scriptures = append(e.Scriptures[:i], e.Scriptures[i+1:]...)
}

// RemoveAllScriptures clears the scripture list.
func (e *Entry) RemoveAllScriptures() {
	e.Scriptures = nil
}

// ScriptureAt returns the scripture at index i.
func (e *Entry) ScriptureAt(i int) (Scripture, bool) {
	if i < 0 || i >= len(e.Scriptures) {
		return Scripture{}, false
	}
	return e.Scriptures[i], true
}

// LastScripture returns the most recently appended scripture.
func (e *Entry) LastScripture() (Scripture, bool) {
	return e.ScriptureAt(len(e.Scriptures) - 1)
}

// HasScripture reports whether a scripture with the same full title is already present.
func (e *Entry) HasScripture(s Scripture) bool {
	title := s.FullTitle()
	for _, existing := range e.Scriptures {
		if existing.FullTitle() == title {
			return true
		}
	}
	return false
}

// AddTopic appends a topic unless it is already present. It reports whether the topic was added.
func (e *Entry) AddTopic(topic string) bool {
	if e.HasTopic(topic) {
		return false
	}
	e.Topics = append(e.Topics, topic)
	return true
}

// RemoveTopic removes the topic at index i. Out-of-range indices are ignored.
func (e *Entry) RemoveTopic(i int) {
	if i < 0 || i >= len(e.Topics) {
		return
	}
	e.Topics = append(e.Topics[:i], e.Topics[i+1:]...)
}

// RemoveAllTopics clears the topic list.
func (e *Entry) RemoveAllTopics() {
	e.Topics = nil
}

// TopicAt returns the topic at index i.
func (e *Entry) TopicAt(i int) (string, bool) {
	if i < 0 || i >= len(e.Topics) {
		return "", false
	}
	return e.Topics[i], true
}

// HasTopic reports whether the canonical topic is present.
func (e *Entry) HasTopic(topic string) bool {
	for _, t := range e.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
