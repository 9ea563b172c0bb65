package page

// Capabilities records which notification bindings the shell page provides.
// It is computed once; features whose binding is missing stay disabled for the
// lifetime of the center.
type Capabilities struct {
	Trigger  bool
	Badge    bool
	Dropdown bool
	Overlay  bool
	List     bool
	MarkAll  bool
}

// Probe inspects doc for each binding.
func Probe(doc *Document) Capabilities {
	return Capabilities{
		Trigger:  doc.HasElement(IDTrigger),
		Badge:    doc.HasElement(IDBadge),
		Dropdown: doc.HasElement(IDDropdown),
		Overlay:  doc.HasElement(IDOverlay),
		List:     doc.HasElement(IDList),
		MarkAll:  doc.HasElement(IDMarkAll),
	}
}

// All returns the capability set used when the shell page could not be
// fetched.
func All() Capabilities {
	return Capabilities{
		Trigger:  true,
		Badge:    true,
		Dropdown: true,
		Overlay:  true,
		List:     true,
		MarkAll:  true,
	}
}

// Enabled reports whether the notification center should run at all.
func (c Capabilities) Enabled() bool {
	return c.Trigger
}

// CanOpen reports whether the dropdown panel can be shown.
func (c Capabilities) CanOpen() bool {
	return c.Trigger && c.Dropdown
}
