package llm

const promptHeader = `
You are an expert Data Structuring Engine. Convert the unstructured text below into a structured JSON dataset.

### INPUT TEXT:
`

const promptRules = `

### GENERIC EXTRACTION RULES (Strictly Follow):

1. **Disambiguate Timelines (Logic):**
   - Analyze dates to distinguish between "First", "Previous", and "Current" roles.
   - **Naming Convention:** Use verbose, descriptive keys that stay unambiguous without any other context.
     - BAD: "Salary", "Job Title".
     - GOOD: "Salary of first professional role", "Current Designation", "Joining Date of previous organization".

2. **Atomic Data Splitting:**
   - Split Names -> "First Name", "Last Name".
   - Split Locations -> "City", "State".
   - Split Money -> "Value" (Integer only), "Currency" (ISO code).

3. **List Handling (Numbering):**
   - For recurring items (Certifications, Projects), number them explicitly.
   - Format Keys as: "Certifications 1", "Certifications 2".
   - Combine the Name, Year, and Score into the Value/Comments for that number.

4. **Data Normalization:**
   - Dates: YYYY-MM-DD (ISO format).
   - Numbers: Integers only (no commas).
   - Text: Preserve original wording in "Comments".

### OUTPUT FORMAT:
Return a single JSON object with this exact structure:
{
  "entries": [
    { "key": "Field Name", "value": "Extracted Data", "comments": "Verbatim source sentence" }
  ]
}
`

// BuildStructuringPrompt embeds the document text, verbatim and once, between the fixed
// instruction header and the extraction rules.
func BuildStructuringPrompt(text string) string {
	b := make([]byte, 0, len(promptHeader)+len(text)+len(promptRules))
	b = append(b, promptHeader...)
	b = append(b, text...)
	b = append(b, promptRules...)
	return string(b)
}
