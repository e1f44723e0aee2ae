package serial_test

import (
	"vellum/serial"
)

// Test domain: a tiny animal model exercising nested values, containers,
// sets, subtypes, and reflective decode.

type Dog struct {
	Name   string
	Age    int64
	Weight float64
}

func (d *Dog) TypeName() string { return "test.Dog" }

func (d *Dog) Fields() []serial.Field {
	return []serial.Field{
		{Name: "name", Get: func() any { return d.Name }, Set: func(v any) error {
			s, err := serial.AsString(v)
			if err != nil {
				return err
			}
			d.Name = s
			return nil
		}},
		{Name: "age", Get: func() any { return d.Age }, Set: func(v any) error {
			n, err := serial.AsInt(v)
			if err != nil {
				return err
			}
			d.Age = n
			return nil
		}},
		{Name: "weight", Optional: true, Get: func() any { return d.Weight }, Set: func(v any) error {
			f, err := serial.AsFloat(v)
			if err != nil {
				return err
			}
			d.Weight = f
			return nil
		}},
	}
}

type Cat struct {
	Name  string
	Lives int64
}

func (c *Cat) TypeName() string { return "test.Cat" }

func (c *Cat) Fields() []serial.Field {
	return []serial.Field{
		{Name: "name", Get: func() any { return c.Name }, Set: func(v any) error {
			s, err := serial.AsString(v)
			if err != nil {
				return err
			}
			c.Name = s
			return nil
		}},
		{Name: "lives", Get: func() any { return c.Lives }, Set: func(v any) error {
			n, err := serial.AsInt(v)
			if err != nil {
				return err
			}
			c.Lives = n
			return nil
		}},
	}
}

// Reading carries an untyped value so sort and key edge cases (nil, empty
// string) are expressible.
type Reading struct {
	Label string
	Value any
}

func (r *Reading) TypeName() string { return "test.Reading" }

func (r *Reading) Fields() []serial.Field {
	return []serial.Field{
		{Name: "label", Get: func() any { return r.Label }, Set: func(v any) error {
			s, err := serial.AsString(v)
			if err != nil {
				return err
			}
			r.Label = s
			return nil
		}},
		{Name: "value", Optional: true, Get: func() any { return r.Value }, Set: func(v any) error {
			r.Value = v
			return nil
		}},
	}
}

// Kennel nests a container inside an ordinary Serializable.
type Kennel struct {
	City string
	Dogs *serial.Container[*Dog]
}

func (k *Kennel) TypeName() string { return "test.Kennel" }

func (k *Kennel) Fields() []serial.Field {
	return []serial.Field{
		{Name: "city", Get: func() any { return k.City }, Set: func(v any) error {
			s, err := serial.AsString(v)
			if err != nil {
				return err
			}
			k.City = s
			return nil
		}},
		{Name: "dogs", Get: func() any { return k.Dogs }, Set: func(v any) error {
			doc, err := serial.AsDocument(v)
			if err != nil {
				return err
			}
			dogs, err := serial.NewContainer(dogPackConfig())
			if err != nil {
				return err
			}
			if err := dogs.UnmarshalDocument(doc); err != nil {
				return err
			}
			k.Dogs = dogs
			return nil
		}},
	}
}

func dogPackConfig() serial.ContainerConfig[*Dog] {
	return serial.ContainerConfig[*Dog]{
		TypeName:    "test.DogPack",
		ElementType: "test.Dog",
		NewElement:  func() *Dog { return &Dog{} },
	}
}

func animalSetConfig() serial.SetConfig[*Dog] {
	return serial.SetConfig[*Dog]{
		ContainerConfig: serial.ContainerConfig[*Dog]{
			TypeName:    "test.AnimalSet",
			ElementType: "test.Dog",
			NewElement:  func() *Dog { return &Dog{} },
		},
		KeyAttr: "name",
	}
}

func readingSetConfig() serial.SetConfig[*Reading] {
	return serial.SetConfig[*Reading]{
		ContainerConfig: serial.ContainerConfig[*Reading]{
			TypeName:    "test.ReadingSet",
			ElementType: "test.Reading",
			NewElement:  func() *Reading { return &Reading{} },
		},
		KeyAttr: "label",
	}
}

func readingContainerConfig() serial.ContainerConfig[*Reading] {
	return serial.ContainerConfig[*Reading]{
		TypeName:    "test.ReadingList",
		ElementType: "test.Reading",
		NewElement:  func() *Reading { return &Reading{} },
	}
}

func init() {
	serial.Register("test.Dog", func() serial.Serializable { return &Dog{} })
	serial.Register("test.Cat", func() serial.Serializable { return &Cat{} })
	serial.Register("test.Reading", func() serial.Serializable { return &Reading{} })
	serial.Register("test.Kennel", func() serial.Serializable { return &Kennel{} })
	serial.Register("test.DogPack", func() serial.Serializable {
		c, err := serial.NewContainer(dogPackConfig())
		if err != nil {
			panic(err)
		}
		return c
	})
	serial.Register("test.AnimalSet", func() serial.Serializable {
		s, err := serial.NewSet(animalSetConfig())
		if err != nil {
			panic(err)
		}
		return s
	})
}
