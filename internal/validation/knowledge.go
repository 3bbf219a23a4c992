package validation

import "github.com/probeworks/knowd/internal/types"

const (
	maxTitleLength   = 500
	maxContentLength = 20000
	maxScopeLength   = 500
	maxTagLength     = 100
)

// ValidateNewEntry checks a create payload field by field.
func ValidateNewEntry(entry types.NewKnowledgeEntry) []ValidationError {
	var c Collector

	c.Add(ValidateEnum("type", string(entry.Type), knowledgeTypeNames()))
	c.Add(ValidateRequired("title", entry.Title))
	c.Add(ValidateMaxLength("title", entry.Title, maxTitleLength))
	c.Add(ValidateRequired("content", entry.Content))
	c.Add(ValidateMaxLength("content", entry.Content, maxContentLength))
	c.Add(ValidateUTF8("content", entry.Content))
	c.Add(ValidateNoNullBytes("content", entry.Content))
	c.Add(ValidateMaxLength("scope", entry.Scope, maxScopeLength))
	c.Add(ValidateIntRange("priority", entry.Priority, 0, 100))
	for _, tag := range entry.Tags {
		c.Add(ValidateRequired("tags", tag))
		c.Add(ValidateMaxLength("tags", tag, maxTagLength))
	}

	return c.Errors()
}

// ValidatePatch checks an update payload. Only present fields are checked.
func ValidatePatch(patch types.EntryPatch) []ValidationError {
	var c Collector

	if patch.Title != nil {
		c.Add(ValidateRequired("title", *patch.Title))
		c.Add(ValidateMaxLength("title", *patch.Title, maxTitleLength))
	}
	if patch.Content != nil {
		c.Add(ValidateRequired("content", *patch.Content))
		c.Add(ValidateMaxLength("content", *patch.Content, maxContentLength))
		c.Add(ValidateUTF8("content", *patch.Content))
		c.Add(ValidateNoNullBytes("content", *patch.Content))
	}
	if patch.Scope != nil {
		c.Add(ValidateMaxLength("scope", *patch.Scope, maxScopeLength))
	}
	if patch.Priority != nil {
		c.Add(ValidateIntRange("priority", *patch.Priority, 0, 100))
	}
	if patch.Tags != nil {
		for _, tag := range *patch.Tags {
			c.Add(ValidateRequired("tags", tag))
			c.Add(ValidateMaxLength("tags", tag, maxTagLength))
		}
	}

	return c.Errors()
}

func knowledgeTypeNames() []string {
	names := make([]string, len(types.KnowledgeTypes))
	for i, t := range types.KnowledgeTypes {
		names[i] = string(t)
	}
	return names
}
