package domain

import "github.com/aretw0/pawtrail/pkg/bundle"

// Dog bundle keys.
const (
	KeyDogID          = "id"
	KeyDogName        = "name"
	KeyDogBreed       = "breed"
	KeyDogAge         = "age"
	KeyDogGender      = "gender"
	KeyDogDescription = "description"
	KeyDogImageURL    = "image_url"
)

// Dog is the record shown by the Detail screen.
// It is a comparable value so that screens can be compared with ==.
type Dog struct {
	ID          int64  `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Breed       string `json:"breed" mapstructure:"breed"`
	Age         int64  `json:"age" mapstructure:"age"`
	Gender      string `json:"gender" mapstructure:"gender"`
	Description string `json:"description" mapstructure:"description"`
	ImageURL    string `json:"image_url" mapstructure:"image_url"`
}

// WriteBundle implements bundle.Parcelable.
func (d Dog) WriteBundle(b *bundle.Bundle) {
	b.PutInt(KeyDogID, d.ID)
	b.PutString(KeyDogName, d.Name)
	b.PutString(KeyDogBreed, d.Breed)
	b.PutInt(KeyDogAge, d.Age)
	b.PutString(KeyDogGender, d.Gender)
	b.PutString(KeyDogDescription, d.Description)
	b.PutString(KeyDogImageURL, d.ImageURL)
}

// ReadBundle implements bundle.Unparcelable.
// Every field is required; d is left untouched on failure.
func (d *Dog) ReadBundle(b *bundle.Bundle) error {
	var (
		out Dog
		err error
	)
	if out.ID, err = b.GetInt(KeyDogID); err != nil {
		return err
	}
	if out.Name, err = b.GetString(KeyDogName); err != nil {
		return err
	}
	if out.Breed, err = b.GetString(KeyDogBreed); err != nil {
		return err
	}
	if out.Age, err = b.GetInt(KeyDogAge); err != nil {
		return err
	}
	if out.Gender, err = b.GetString(KeyDogGender); err != nil {
		return err
	}
	if out.Description, err = b.GetString(KeyDogDescription); err != nil {
		return err
	}
	if out.ImageURL, err = b.GetString(KeyDogImageURL); err != nil {
		return err
	}
	*d = out
	return nil
}
