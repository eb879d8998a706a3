package generator

// Pools holds the character sets the text column draws from.
type Pools struct {
	Hiragana []rune
	Katakana []rune
	Alphabet []rune
}

func DefaultPools() Pools {
	return Pools{
		Hiragana: []rune("あいうえおかきくけこさしすせそ"),
		Katakana: []rune("アイウエオカキクケコサシスセソ"),
		Alphabet: []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"),
	}
}

// pool picks the set for a textType; anything unrecognized is alphanumeric.
func (p Pools) pool(textType string) []rune {
	switch textType {
	case "hiragana":
		return p.Hiragana
	case "katakana":
		return p.Katakana
	default:
		return p.Alphabet
	}
}
