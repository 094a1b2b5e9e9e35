package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinDisplayNameLength = 2
	MaxDisplayNameLength = 100
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000
	MaxAddressLength     = 300
	MaxCityLength        = 100
	MaxNoteLength        = 2000

	// Верхняя граница цены, защита от опечаток. 10 миллиардов в минимальных единицах.
	MaxPrice = int64(10_000_000_000)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateDisplayName проверяет отображаемое имя.
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return fmt.Errorf("отображаемое имя обязательно")
	}

	displayName = strings.TrimSpace(displayName)

	if err := ValidateLength("отображаемое имя", displayName, MinDisplayNameLength, MaxDisplayNameLength); err != nil {
		return err
	}

	displayNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,()]+$`)
	if !displayNameRegex.MatchString(displayName) {
		return fmt.Errorf("отображаемое имя содержит недопустимые символы")
	}

	return nil
}

// ValidateRole проверяет роль пользователя.
func ValidateRole(role string) error {
	switch role {
	case "buyer", "agent", "manager":
		return nil
	}
	return fmt.Errorf("роль должна быть buyer, agent или manager")
}

// ValidatePropertyTitle проверяет заголовок объявления.
func ValidatePropertyTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок объявления обязателен")
	}
	return ValidateLength("заголовок объявления", strings.TrimSpace(title), MinTitleLength, MaxTitleLength)
}

// ValidatePropertyDescription проверяет описание объявления.
func ValidatePropertyDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание объявления обязательно")
	}
	return ValidateLength("описание объявления", strings.TrimSpace(description), MinDescriptionLength, MaxDescriptionLength)
}

// ValidateNote проверяет сопроводительный комментарий к ходу переговоров.
func ValidateNote(note *string) error {
	if note == nil {
		return nil
	}
	return ValidateLength("комментарий", *note, 0, MaxNoteLength)
}

// ValidatePriceBounds проверяет цену на разумные границы.
// Положительность цены проверяется ниже, на уровне домена.
func ValidatePriceBounds(price int64) error {
	if price > MaxPrice {
		return fmt.Errorf("цена превышает допустимый максимум")
	}
	return nil
}
