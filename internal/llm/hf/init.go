package hf

import "peerprep/interview/internal/llm"

// Register the Hugging Face provider on package import
func init() {
	llm.RegisterProvider(providerName, func() (llm.Provider, error) {
		config, err := NewConfig()
		if err != nil {
			return nil, err
		}
		return NewClient(config), nil
	})
}
