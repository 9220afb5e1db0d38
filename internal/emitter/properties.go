package emitter

import (
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/naming"
	"github.com/toyz/spyable/internal/shapes"
	"github.com/toyz/spyable/internal/templates"
)

func (c *companion) emitProperties() error {
	switch c.decl.Kind {
	case models.DeclarationProtocol:
		return c.emitRequirementProperties()
	case models.DeclarationStruct:
		c.emitStoredProperties()
	}
	return nil
}

// emitRequirementProperties satisfies protocol properties with stored
// variables; assignable ones count and record every assignment
func (c *companion) emitRequirementProperties() error {
	for _, prop := range c.sig.Properties {
		if prop.IsReadOnly {
			c.add(models.BlockProperties, prop.Name, c.access+"var "+prop.Name+": "+prop.Type)
			continue
		}

		changes := c.name(propertyKey(prop.Name, roleChanges))
		values := c.name(propertyKey(prop.Name, roleValues))
		observed, err := c.render("observed-property", templates.ObservedPropertyData{
			Modifiers: c.access,
			Name:      prop.Name,
			Type:      prop.Type,
			OnSet: []string{
				changes + " += 1",
				values + ".append(" + prop.Name + ")",
			},
		})
		if err != nil {
			return err
		}
		text := strings.Join([]string{
			observed,
			c.access + "private(set) var " + changes + " = 0",
			c.trackingList(values, shapes.StorageType(prop.Type)),
		}, "\n")
		c.add(models.BlockProperties, prop.Name, text)
	}
	return nil
}

// emitStoredProperties replicates the stored properties of a struct
func (c *companion) emitStoredProperties() {
	for _, prop := range c.sig.Properties {
		keyword := "var "
		if prop.IsConstant {
			keyword = "let "
		}
		line := c.access + keyword + prop.Name + ": " + prop.Type
		if prop.DefaultValue != "" {
			line += " = " + prop.DefaultValue
		}
		c.add(models.BlockProperties, prop.Name, line)
	}
}

func (c *companion) emitInitializers() error {
	switch c.decl.Kind {
	case models.DeclarationProtocol:
		return c.emitPropertyInitializer(c.sig.Properties, false)
	case models.DeclarationStruct:
		return c.emitStructInitializers()
	case models.DeclarationClass:
		return c.emitClassInitializers()
	}
	return nil
}

// emitPropertyInitializer declares an initializer taking one parameter per
// property. With skipInitialized, properties already holding a value are
// taken only when assignable, defaulting to that value.
func (c *companion) emitPropertyInitializer(props []models.PropertyModel, skipInitialized bool) error {
	fn := templates.FunctionData{Modifiers: c.access, Keyword: "init"}
	for _, prop := range props {
		param := prop.Name + ": " + parameterType(prop.Type)
		switch {
		case prop.DefaultValue != "" && skipInitialized:
			if prop.IsConstant {
				continue
			}
			param += " = " + prop.DefaultValue
		case prop.IsOptional():
			param += " = nil"
		}
		fn.Parameters = append(fn.Parameters, param)
		fn.Body = append(fn.Body, "self."+prop.Name+" = "+prop.Name)
	}
	if len(fn.Parameters) == 0 && c.access == "" {
		return nil
	}
	return c.addFunction(models.BlockInitializer, "init", fn)
}

// parameterType is the parameter type accepting a value for a stored property
func parameterType(propertyType string) string {
	if shapes.IsFunctionType(propertyType) && !strings.HasSuffix(propertyType, "?") && !strings.HasSuffix(propertyType, "!") {
		return "@escaping " + propertyType
	}
	return propertyType
}

// emitStructInitializers mirrors the declared initializers that assign every
// stored property from a same-named parameter, or falls back to a memberwise one
func (c *companion) emitStructInitializers() error {
	mirrored := 0
	for _, initializer := range c.sig.Initializers {
		assigned, ok := coveredProperties(initializer, c.sig.Properties)
		if !ok {
			err := spyerrors.NewUnsupportedMemberError(c.decl.Name, initializer.Selector(),
				"initializer does not take every stored property as a same-named parameter")
			err.WithLocation(initializer.Location.SourceLocation())
			c.diags.Warn(err)
			continue
		}
		fn := templates.FunctionData{
			Modifiers:  c.access,
			Keyword:    "init" + initializer.Failable,
			Parameters: parameterList(initializer.Parameters),
			Effects:    effects(initializer.IsAsync, initializer.IsThrowing),
		}
		for _, name := range assigned {
			fn.Body = append(fn.Body, "self."+name+" = "+name)
		}
		if err := c.addFunction(models.BlockInitializer, initializer.Selector(), fn); err != nil {
			return err
		}
		mirrored++
	}
	if mirrored > 0 {
		return nil
	}
	return c.emitPropertyInitializer(c.sig.Properties, true)
}

// coveredProperties returns the properties an initializer assigns. ok is
// false when a property without a value has no parameter of its name and type.
func coveredProperties(initializer models.InitializerModel, props []models.PropertyModel) ([]string, bool) {
	params := make(map[string]string, len(initializer.Parameters))
	for _, p := range initializer.Parameters {
		params[p.InternalName] = shapes.StorageType(p.Type)
	}
	var assigned []string
	for _, prop := range props {
		t, ok := params[prop.Name]
		matches := ok && t == shapes.StorageType(prop.Type)
		if matches && !(prop.IsConstant && prop.DefaultValue != "") {
			assigned = append(assigned, prop.Name)
			continue
		}
		if prop.DefaultValue == "" {
			return nil, false
		}
	}
	return assigned, true
}

// emitClassInitializers overrides each designated initializer so recording
// starts after the superclass is initialized
func (c *companion) emitClassInitializers() error {
	observe := len(c.sig.ObservedProperties) > 0
	if len(c.sig.Initializers) == 0 {
		if !observe {
			return nil
		}
		return c.addFunction(models.BlockInitializer, "init()", templates.FunctionData{
			Modifiers: c.access + "override ",
			Keyword:   "init",
			Body:      []string{"super.init()", observeName + "()"},
		})
	}

	for _, initializer := range c.sig.Initializers {
		modifiers := c.access + "override "
		if initializer.IsRequired {
			modifiers = c.access + "required "
		}
		call := "super.init(" + forwardArguments(initializer.Parameters) + ")"
		if initializer.IsAsync {
			call = "await " + call
		}
		if initializer.IsThrowing {
			call = "try " + call
		}
		fn := templates.FunctionData{
			Modifiers:  modifiers,
			Keyword:    "init" + initializer.Failable,
			Parameters: parameterList(initializer.Parameters),
			Effects:    effects(initializer.IsAsync, initializer.IsThrowing),
			Body:       []string{call},
		}
		if observe {
			fn.Body = append(fn.Body, observeName+"()")
		}
		if err := c.addFunction(models.BlockInitializer, initializer.Selector(), fn); err != nil {
			return err
		}
	}
	return nil
}

const observeName = "observeSpyProperties"

func (c *companion) addFunction(kind models.BlockKind, name string, fn templates.FunctionData) error {
	text, err := c.render("function", fn)
	if err != nil {
		return err
	}
	c.add(kind, name, text)
	return nil
}

func (c *companion) emitUtilities() error {
	data := templates.UtilitiesData{
		Access:    c.access,
		Reset:     c.utility[naming.ResetName],
		DidCall:   c.utility[naming.DidCallName],
		CallCount: c.utility[naming.CallCountName],
	}
	for _, p := range c.plans {
		if len(p.recorded) > 0 {
			data.Clear = append(data.Clear, c.name(p.key(roleTrack))+".removeAll()")
		}
		if p.result {
			data.Clear = append(data.Clear, c.name(p.key(roleResults))+".removeAll()")
		}
		if p.kind() != models.Synchronous {
			data.Ledgers = append(data.Ledgers, c.name(p.key(roleLedger)))
		}
	}
	for _, prop := range c.claimedProperties() {
		data.Clear = append(data.Clear, c.name(propertyKey(prop.Name, roleValues))+".removeAll()")
		if !c.isClass() {
			data.Clear = append(data.Clear, c.name(propertyKey(prop.Name, roleChanges))+" = 0")
		}
	}

	text, err := c.render("utilities", data)
	if err != nil {
		return err
	}
	c.add(models.BlockUtility, data.Reset, text)

	if !c.isClass() || len(c.sig.ObservedProperties) == 0 {
		return nil
	}
	var observations []templates.ObservationData
	for _, prop := range c.sig.ObservedProperties {
		observations = append(observations, templates.ObservationData{
			Property: prop.Name,
			Values:   c.name(propertyKey(prop.Name, roleValues)),
		})
	}
	text, err = c.render("observation", observations)
	if err != nil {
		return err
	}
	c.add(models.BlockUtility, observeName, text)
	return nil
}
