package transfer

type LinkedInShareRequest struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent LinkedInSpecificContent `json:"specificContent"`
	Visibility      map[string]string       `json:"visibility"`
}

type LinkedInSpecificContent struct {
	ShareContent LinkedInShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type LinkedInShareContent struct {
	ShareCommentary    LinkedInText `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
}

type LinkedInText struct {
	Text string `json:"text"`
}

type LinkedInShareResponse struct {
	ID string `json:"id"`
}

type LinkedInErrorResponse struct {
	Message          string `json:"message"`
	ServiceErrorCode int    `json:"serviceErrorCode"`
	Status           int    `json:"status"`
}
