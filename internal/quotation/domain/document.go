package domain

// Document is a rendered, self-contained HTML quotation.
type Document struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
	HTML     string `json:"html"`
}

// EmailHandoff is a composed message ready to be opened in the user's mail
// client. Nothing is delivered by the server.
type EmailHandoff struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	MailtoURI string `json:"mailtoUri"`
}
