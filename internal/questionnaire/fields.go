package questionnaire

func (c *Configuration) firstInputIndex() int {
	for i, f := range c.Fields {
		if f.Type != FieldStatement {
			return i
		}
	}
	return -1
}

// IntroStatements returns the statement fields that precede the first input
// field. They are shown on the intro screen rather than as questions.
func (c *Configuration) IntroStatements() []Field {
	idx := c.firstInputIndex()
	if idx <= 0 {
		return nil
	}
	return c.Fields[:idx]
}

// NavigableFields returns the fields the engine walks: everything from the
// first input field on. A statement later in the list stays navigable.
func (c *Configuration) NavigableFields() []Field {
	idx := c.firstInputIndex()
	if idx < 0 {
		return []Field{}
	}
	return c.Fields[idx:]
}

// FieldByIDOrRef looks a field up by id, then by ref.
func (c *Configuration) FieldByIDOrRef(idOrRef string) *Field {
	return findField(idOrRef, c.Fields)
}

// ThankYouScreen returns the first thank-you screen, if any.
func (c *Configuration) ThankYouScreen() *Screen {
	if len(c.ThankYouScreens) == 0 {
		return nil
	}
	return &c.ThankYouScreens[0]
}

// WelcomeScreen returns the first welcome screen, if any.
func (c *Configuration) WelcomeScreen() *Screen {
	if len(c.WelcomeScreens) == 0 {
		return nil
	}
	return &c.WelcomeScreens[0]
}
