package speech

type GoogleConfig struct {
	Language string
	Speed    float32
}

func (c GoogleConfig) withDefaults() GoogleConfig {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}
	return c
}
